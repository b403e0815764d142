// AngelaMos | 2026
// profile.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/silvershift/internal/core"
	"github.com/carterperez-dev/silvershift/internal/profile"
)

const ProfileTokenHeader = "X-Profile-Token"

type ProfileTokens interface {
	Issue(profileID string) (string, time.Time, error)
	Verify(token string) (string, error)
	CookieName() string
	CookieSecure() bool
}

type WorkspaceOpener interface {
	Open(ctx context.Context, id string) (*profile.Workspace, error)
}

// Profile attaches the caller's workspace to the request. A request with
// no token gets a new profile and its token is returned in the
// X-Profile-Token header and cookie.
func Profile(
	tokens ProfileTokens,
	workspaces WorkspaceOpener,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r, tokens.CookieName())

			var (
				id        string
				expiresAt time.Time
				err       error
			)
			if token == "" {
				id = profile.NewProfileID()
				token, expiresAt, err = tokens.Issue(id)
				if err != nil {
					core.InternalServerError(w, err)
					return
				}
			} else {
				id, err = tokens.Verify(token)
				if err != nil {
					handleTokenError(w, err)
					return
				}
			}

			ws, err := workspaces.Open(r.Context(), id)
			if err != nil {
				core.InternalServerError(w, err)
				return
			}

			w.Header().Set(ProfileTokenHeader, token)
			if !expiresAt.IsZero() {
				http.SetCookie(w, &http.Cookie{
					Name:     tokens.CookieName(),
					Value:    token,
					Path:     "/",
					Expires:  expiresAt,
					HttpOnly: true,
					Secure:   tokens.CookieSecure(),
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := profile.WithWorkspace(r.Context(), ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated rejects requests whose profile has nobody signed in.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := profile.CurrentUser(r.Context()); !ok {
			core.JSONError(w, core.UnauthorizedError("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUserType admits signed-in users whose type is one of types.
func RequireUserType(types ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := profile.CurrentUser(r.Context())
			if !ok {
				core.JSONError(w, core.UnauthorizedError("authentication required"))
				return
			}

			if _, ok := allowed[u.UserType]; !ok {
				core.JSONError(w, core.ForbiddenError("insufficient permissions"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken reads the profile token from a bearer Authorization header,
// the X-Profile-Token header, or the named cookie, in that order.
func ExtractToken(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if token := r.Header.Get(ProfileTokenHeader); token != "" {
		return strings.TrimSpace(token)
	}

	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil {
			return c.Value
		}
	}

	return ""
}

func handleTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}
