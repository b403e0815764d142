// AngelaMos | 2026
// token_test.go

package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/silvershift/internal/config"
	"github.com/carterperez-dev/silvershift/internal/core"
)

func testProfileConfig() config.ProfileConfig {
	return config.ProfileConfig{
		TokenExpire: time.Hour,
		Issuer:      "silvershift-test",
		Audience:    "silvershift-test",
		CookieName:  "silvershift_profile",
	}
}

func TestToken_RoundTrip(t *testing.T) {
	m, err := NewEphemeralTokenManager(testProfileConfig())
	require.NoError(t, err)

	id := NewProfileID()
	token, expiresAt, err := m.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestToken_RejectsTampering(t *testing.T) {
	m, err := NewEphemeralTokenManager(testProfileConfig())
	require.NoError(t, err)

	token, _, err := m.Issue("p1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = m.Verify(forged)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = m.Verify("not-a-token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestToken_RejectsOtherKey(t *testing.T) {
	a, err := NewEphemeralTokenManager(testProfileConfig())
	require.NoError(t, err)
	b, err := NewEphemeralTokenManager(testProfileConfig())
	require.NoError(t, err)

	token, _, err := a.Issue("p1")
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestToken_Expired(t *testing.T) {
	m, err := NewEphemeralTokenManager(testProfileConfig())
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return past }
	token, _, err := m.Issue("p1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestGenerateKeyPair_LoadsBack(t *testing.T) {
	dir := t.TempDir()
	cfg := testProfileConfig()
	cfg.PrivateKeyPath = filepath.Join(dir, "private.pem")
	cfg.PublicKeyPath = filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	m, err := NewTokenManager(cfg)
	require.NoError(t, err)

	token, _, err := m.Issue("p2")
	require.NoError(t, err)
	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "p2", got)
}

func TestJWKSHandler(t *testing.T) {
	m, err := NewEphemeralTokenManager(testProfileConfig())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, m.KeyID(), body.Keys[0]["kid"])
	assert.NotContains(t, body.Keys[0], "d")
}
