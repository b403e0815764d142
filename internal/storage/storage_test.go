// AngelaMos | 2026
// storage_test.go

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/silvershift/internal/config"
	"github.com/carterperez-dev/silvershift/internal/core"
)

func runKVContract(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key is not found", func(t *testing.T) {
		_, err := kv.Get(ctx, "absent")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "k1", []byte(`["2","4"]`)))

		v, err := kv.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, `["2","4"]`, string(v))
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "k2", []byte("a")))
		require.NoError(t, kv.Set(ctx, "k2", []byte("b")))

		v, err := kv.Get(ctx, "k2")
		require.NoError(t, err)
		assert.Equal(t, "b", string(v))
	})

	t.Run("delete removes and tolerates missing", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "k3", []byte("x")))
		require.NoError(t, kv.Delete(ctx, "k3"))
		require.NoError(t, kv.Delete(ctx, "k3"))

		_, err := kv.Get(ctx, "k3")
		assert.True(t, IsNotFound(err))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, kv.Ping(ctx))
	})
}

func TestMemory_Contract(t *testing.T) {
	runKVContract(t, NewMemory())
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'z'

	out, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	out[1] = 'z'
	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestScoped_Contract(t *testing.T) {
	runKVContract(t, Scoped(NewMemory(), "profile:a:"))
}

func TestScoped_IsolatesPrefixes(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	a := Scoped(base, "profile:a:")
	b := Scoped(base, "profile:b:")

	require.NoError(t, a.Set(ctx, "silvershift_user", []byte("alice")))

	_, err := b.Get(ctx, "silvershift_user")
	assert.True(t, IsNotFound(err))

	raw, err := base.Get(ctx, "profile:a:silvershift_user")
	require.NoError(t, err)
	assert.Equal(t, "alice", string(raw))
}

func TestScoped_NestsPrefixes(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	nested := Scoped(Scoped(base, "app:"), "profile:x:")

	require.NoError(t, nested.Set(ctx, "k", []byte("v")))

	_, err := base.Get(ctx, "app:profile:x:k")
	assert.NoError(t, err)
}

func TestSQL_ContractOnSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "kv.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	runKVContract(t, NewSQL(db.DB))
}

func TestRedis_Contract(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	runKVContract(t, NewRedis(client, "silvershift-test:"+t.Name()+":"))
}
