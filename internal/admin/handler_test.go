// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedProfiles int

func (n fixedProfiles) Len() int { return int(n) }

type userCounts struct {
	counts map[string]int
	err    error
}

func (u userCounts) CountByType(context.Context) (map[string]int, error) {
	return u.counts, u.err
}

func serve(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r, func(next http.Handler) http.Handler { return next })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetSystemStats(t *testing.T) {
	h := NewHandler(HandlerConfig{
		DBStats:  func() sql.DBStats { return sql.DBStats{MaxOpenConnections: 7} },
		DBPing:   func(context.Context) error { return nil },
		Profiles: fixedProfiles(3),
		Users: userCounts{counts: map[string]int{
			"BUYER": 1, "SELLER": 1, "ADMIN": 0,
		}},
	})

	rec := serve(t, h, "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data SystemStatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Data.Database.Enabled)
	assert.True(t, body.Data.Database.Healthy)
	require.NotNil(t, body.Data.Database.Stats)
	assert.Equal(t, 7, body.Data.Database.Stats.MaxOpenConnections)

	assert.False(t, body.Data.Redis.Enabled)
	assert.Nil(t, body.Data.Redis.Stats)

	assert.Equal(t, 3, body.Data.OpenProfiles)
	assert.Equal(t, 1, body.Data.UsersByType["BUYER"])
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
}

func TestGetSystemStats_UnhealthyRedis(t *testing.T) {
	h := NewHandler(HandlerConfig{
		RedisPing: func(context.Context) error { return errors.New("refused") },
	})

	rec := serve(t, h, "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data SystemStatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Redis.Enabled)
	assert.False(t, body.Data.Redis.Healthy)
}

func TestGetSystemStats_CountError(t *testing.T) {
	h := NewHandler(HandlerConfig{
		Users: userCounts{err: errors.New("db gone")},
	})

	rec := serve(t, h, "/admin/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetRuntimeStats(t *testing.T) {
	rec := serve(t, NewHandler(HandlerConfig{}), "/admin/stats/runtime")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data RuntimeStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Positive(t, body.Data.NumCPU)
}
