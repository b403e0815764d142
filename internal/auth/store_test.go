// AngelaMos | 2026
// store_test.go

package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/silvershift/internal/core"
	"github.com/carterperez-dev/silvershift/internal/storage"
	"github.com/carterperez-dev/silvershift/internal/user"
)

var (
	seededOnce sync.Once
	seededDir  *user.Service
)

// directory returns a fresh service sharing one seeded hash so the argon2
// cost is paid once per test binary.
func directory(t *testing.T) *user.Service {
	t.Helper()
	seededOnce.Do(func() {
		seededDir = user.NewService(user.NewMemoryRepository())
		require.NoError(t, seededDir.SeedDefaults(context.Background()))
	})

	base, err := seededDir.GetByEmail(context.Background(), "john.buyer@email.com")
	require.NoError(t, err)

	svc := user.NewService(user.NewMemoryRepository())
	require.NoError(t, svc.SeedDefaultsWithHash(context.Background(), base.PasswordHash))
	return svc
}

func newStore(t *testing.T, kv storage.KV, dir Directory) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), kv, dir, Options{})
	require.NoError(t, err)
	return s
}

func TestLogin_UnknownEmailRejected(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newStore(t, kv, directory(t))

	ok, err := s.Login(ctx, "nobody@email.com", user.DemoPassword)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())

	_, err = kv.Get(ctx, SessionKey)
	assert.True(t, storage.IsNotFound(err))
}

func TestLogin_DemoPasswordPersistsSession(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	dir := directory(t)
	s := newStore(t, kv, dir)

	ok, err := s.Login(ctx, "john.buyer@email.com", user.DemoPassword)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, s.IsAuthenticated())

	u, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "1", u.ID)
	assert.Empty(t, u.PasswordHash)

	reloaded := newStore(t, kv, dir)
	again, ok := reloaded.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, u.Email, again.Email)
	assert.Equal(t, *u.Profile.Phone, *again.Profile.Phone)
}

func TestLogin_WrongPasswordLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory(), directory(t))

	ok, err := s.Login(ctx, "sarah.seller@email.com", user.DemoPassword)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Login(ctx, "john.buyer@email.com", "wrongpassword")
	require.NoError(t, err)
	assert.False(t, ok)

	u, _ := s.CurrentUser()
	assert.Equal(t, "2", u.ID)
}

func TestRegister_ExistingEmailRejected(t *testing.T) {
	s := newStore(t, storage.NewMemory(), directory(t))

	ok, err := s.Register(context.Background(), RegisterData{
		Email:    "john.buyer@email.com",
		Password: "whatever1",
		Name:     "Someone",
		UserType: user.TypeBuyer,
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())
}

func TestRegister_NewAccount(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	kv := storage.NewMemory()
	dir := directory(t)

	s, err := NewStore(ctx, kv, dir, Options{Now: func() time.Time { return now }})
	require.NoError(t, err)

	bio := "first business"
	ok, err := s.Register(ctx, RegisterData{
		Email:    "new@email.com",
		Password: "s3cretpass",
		Name:     "New Buyer",
		UserType: user.TypeBuyer,
		Profile:  &user.Profile{Bio: &bio},
	})
	require.NoError(t, err)
	require.True(t, ok)

	u, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, user.TierFree, u.SubscriptionTier)
	assert.False(t, u.Verified)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, now, u.CreatedAt)
	assert.Equal(t, "first business", *u.Profile.Bio)

	fresh := newStore(t, storage.NewMemory(), dir)
	ok, err = fresh.Login(ctx, "new@email.com", "s3cretpass")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLogout_ClearsSavedSession(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	dir := directory(t)
	s := newStore(t, kv, dir)

	ok, err := s.Login(ctx, "john.buyer@email.com", user.DemoPassword)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.IsAuthenticated())

	_, err = kv.Get(ctx, SessionKey)
	assert.True(t, storage.IsNotFound(err))
	assert.False(t, newStore(t, kv, dir).IsAuthenticated())
}

func TestUpdateProfile_MergesWhenSignedIn(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	dir := directory(t)
	s := newStore(t, kv, dir)

	ok, err := s.Login(ctx, "john.buyer@email.com", user.DemoPassword)
	require.NoError(t, err)
	require.True(t, ok)

	bio := "x"
	ok, err = s.UpdateProfile(ctx, user.Profile{Bio: &bio})
	require.NoError(t, err)
	assert.True(t, ok)

	u, _ := s.CurrentUser()
	assert.Equal(t, "x", *u.Profile.Bio)
	assert.Equal(t, "+1-555-0123", *u.Profile.Phone)

	reloaded, _ := newStore(t, kv, dir).CurrentUser()
	assert.Equal(t, "x", *reloaded.Profile.Bio)
}

func TestUpdateProfile_NoopWhenSignedOut(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newStore(t, kv, directory(t))

	bio := "x"
	ok, err := s.UpdateProfile(ctx, user.Profile{Bio: &bio})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())

	_, err = kv.Get(ctx, SessionKey)
	assert.True(t, storage.IsNotFound(err))
}

func TestNewStore_DiscardsUnreadableSession(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage": "{not json",
		"null":    "null",
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemory()
			require.NoError(t, kv.Set(ctx, SessionKey, []byte(raw)))

			s := newStore(t, kv, directory(t))
			assert.False(t, s.IsAuthenticated())

			_, err := kv.Get(ctx, SessionKey)
			assert.True(t, storage.IsNotFound(err))
		})
	}
}

type failingKV struct {
	storage.KV
	failSet bool
	failGet bool
}

var errBackend = errors.New("backend down")

func (f *failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errBackend
	}
	return f.KV.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errBackend
	}
	return f.KV.Set(ctx, key, value)
}

func TestLogin_BackendFailureKeepsState(t *testing.T) {
	kv := &failingKV{KV: storage.NewMemory(), failSet: true}
	s := newStore(t, kv, directory(t))

	ok, err := s.Login(context.Background(), "john.buyer@email.com", user.DemoPassword)
	require.ErrorIs(t, err, errBackend)
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())
}

func TestNewStore_BackendReadFailure(t *testing.T) {
	kv := &failingKV{KV: storage.NewMemory(), failGet: true}
	_, err := NewStore(context.Background(), kv, directory(t), Options{})
	assert.ErrorIs(t, err, errBackend)
}

type brokenDirectory struct{}

func (brokenDirectory) GetByEmail(context.Context, string) (*user.User, error) {
	return nil, errBackend
}

func (brokenDirectory) Create(context.Context, *user.User) error {
	return core.ErrDuplicateKey
}

func TestLogin_DirectoryFailureIsError(t *testing.T) {
	s := newStore(t, storage.NewMemory(), brokenDirectory{})

	_, err := s.Login(context.Background(), "a@b.c", "x")
	assert.ErrorIs(t, err, errBackend)
}

func TestLogin_WaitsSimulatedLatency(t *testing.T) {
	s, err := NewStore(context.Background(), storage.NewMemory(), directory(t), Options{
		SimulatedLatency: 30 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	_, err = s.Login(context.Background(), "nobody@email.com", "x")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
