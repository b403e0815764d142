// AngelaMos | 2026
// context.go

package profile

import (
	"context"

	"github.com/carterperez-dev/silvershift/internal/auth"
	"github.com/carterperez-dev/silvershift/internal/listing"
	"github.com/carterperez-dev/silvershift/internal/user"
)

type contextKey struct{}

func WithWorkspace(ctx context.Context, ws *Workspace) context.Context {
	return context.WithValue(ctx, contextKey{}, ws)
}

func FromContext(ctx context.Context) (*Workspace, bool) {
	ws, ok := ctx.Value(contextKey{}).(*Workspace)
	return ws, ok && ws != nil
}

func SessionFrom(ctx context.Context) (*auth.Store, bool) {
	ws, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	return ws.Session, true
}

func CatalogFrom(ctx context.Context) (*listing.Store, bool) {
	ws, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	return ws.Catalog, true
}

// CurrentUser returns the signed-in user of the request's profile.
func CurrentUser(ctx context.Context) (user.User, bool) {
	session, ok := SessionFrom(ctx)
	if !ok {
		return user.User{}, false
	}
	return session.CurrentUser()
}

func IDFrom(ctx context.Context) string {
	if ws, ok := FromContext(ctx); ok {
		return ws.ID
	}
	return ""
}
