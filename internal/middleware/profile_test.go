// AngelaMos | 2026
// profile_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/silvershift/internal/config"
	"github.com/carterperez-dev/silvershift/internal/core"
	"github.com/carterperez-dev/silvershift/internal/listing"
	"github.com/carterperez-dev/silvershift/internal/profile"
	"github.com/carterperez-dev/silvershift/internal/storage"
	"github.com/carterperez-dev/silvershift/internal/user"
)

type fixture struct {
	tokens   *profile.TokenManager
	registry *profile.Registry
	router   http.Handler
}

func newFixture(t *testing.T, guard func(http.Handler) http.Handler) *fixture {
	t.Helper()
	return newBoundedFixture(t, guard, 0)
}

func newBoundedFixture(t *testing.T, guard func(http.Handler) http.Handler, maxOpen int) *fixture {
	t.Helper()

	directory := user.NewService(user.NewMemoryRepository())
	require.NoError(t, directory.SeedDefaults(context.Background()))

	registry := profile.NewRegistry(profile.RegistryConfig{
		KV:        storage.NewMemory(),
		Directory: directory,
		Listings:  listing.NewStaticSource(listing.SeedListings()),
		MaxOpen:   maxOpen,
	})

	tokens, err := profile.NewEphemeralTokenManager(config.ProfileConfig{
		TokenExpire: time.Hour,
		Issuer:      "silvershift-test",
		Audience:    "silvershift-test",
		CookieName:  "silvershift_profile",
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(Profile(tokens, registry))
	if guard != nil {
		r.Use(guard)
	}
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		core.OK(w, profile.IDFrom(r.Context()))
	})

	return &fixture{tokens: tokens, registry: registry, router: r}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestProfile_MintsTokenForNewClient(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	token := rec.Header().Get(ProfileTokenHeader)
	require.NotEmpty(t, token)

	id, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), id)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "silvershift_profile", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1, f.registry.Len())
}

func TestProfile_TokenlessBurstStaysWithinCapacity(t *testing.T) {
	f := newBoundedFixture(t, nil, 25)

	first := f.do(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, first.Code)
	token := first.Header().Get(ProfileTokenHeader)

	for range 1000 {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/whoami", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 25, f.registry.Len())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(ProfileTokenHeader, token)
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	id, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), id)
	assert.Equal(t, 25, f.registry.Len())
}

func TestProfile_ReusesWorkspaceForSameToken(t *testing.T) {
	f := newFixture(t, nil)

	first := f.do(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	token := first.Header().Get(ProfileTokenHeader)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(ProfileTokenHeader, token)
	second := f.do(req)

	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, token, second.Header().Get(ProfileTokenHeader))
	assert.Empty(t, second.Result().Cookies())
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, f.registry.Len())
}

func TestProfile_RejectsBadToken(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, f.registry.Len())
}

func TestRequireUserType(t *testing.T) {
	f := newFixture(t, RequireUserType(user.TypeSeller))
	ctx := context.Background()

	id := profile.NewProfileID()
	token, _, err := f.tokens.Issue(id)
	require.NoError(t, err)

	request := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(ProfileTokenHeader, token)
		return f.do(req)
	}

	assert.Equal(t, http.StatusUnauthorized, request().Code)

	ws, err := f.registry.Open(ctx, id)
	require.NoError(t, err)

	ok, err := ws.Session.Login(ctx, "john.buyer@email.com", user.DemoPassword)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, request().Code)

	require.NoError(t, ws.Session.Logout(ctx))
	ok, err = ws.Session.Login(ctx, "sarah.seller@email.com", user.DemoPassword)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, request().Code)
}

func TestRequireAuthenticated(t *testing.T) {
	f := newFixture(t, RequireAuthenticated)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		auth   string
		header string
		cookie string
		want   string
	}{
		{name: "none", want: ""},
		{name: "bearer wins", auth: "Bearer a", header: "b", cookie: "c", want: "a"},
		{name: "header before cookie", header: "b", cookie: "c", want: "b"},
		{name: "cookie", cookie: "c", want: "c"},
		{name: "non-bearer scheme ignored", auth: "Basic xyz", cookie: "c", want: "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			if tt.header != "" {
				req.Header.Set(ProfileTokenHeader, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "pc", Value: tt.cookie})
			}

			assert.Equal(t, tt.want, ExtractToken(req, "pc"))
		})
	}
}
