// AngelaMos | 2026
// handler_test.go

package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := NewService(NewMemoryRepository())
	require.NoError(t, svc.SeedDefaults(context.Background()))

	r := chi.NewRouter()
	passthrough := func(next http.Handler) http.Handler { return next }
	NewHandler(svc).RegisterAdminRoutes(r, passthrough)
	return r
}

func TestHandler_ListUsers(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/users?user_type=BUYER", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
		Meta    struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Meta.Total)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "john.buyer@email.com", body.Data[0]["email"])
	assert.NotContains(t, body.Data[0], "PasswordHash")
}

func TestHandler_GetUserNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/users/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
