// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/silvershift/internal/config"
	"github.com/carterperez-dev/silvershift/internal/core"
)

func newSQLiteRepository(t *testing.T) Repository {
	t.Helper()
	ctx := context.Background()

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "users.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	return NewRepository(db.DB)
}

func runRepositoryContract(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, SeedUsers(), "hash"))
	require.NoError(t, repo.Seed(ctx, SeedUsers(), "other"))

	t.Run("seeded users are readable", func(t *testing.T) {
		u, err := repo.GetByEmail(ctx, "john.buyer@email.com")
		require.NoError(t, err)
		assert.Equal(t, "1", u.ID)
		assert.Equal(t, TypeBuyer, u.UserType)
		assert.Equal(t, TierPro, u.SubscriptionTier)
		assert.Equal(t, "hash", u.PasswordHash)
		require.NotNil(t, u.Profile.BuyerBudgetMax)
		assert.Equal(t, int64(800000), *u.Profile.BuyerBudgetMax)
		assert.True(t, u.CreatedAt.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("email lookup is exact", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "JOHN.BUYER@email.com")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("create then fetch", func(t *testing.T) {
		u := &User{
			ID:               "u-3",
			Email:            "new@example.com",
			Name:             "New Person",
			UserType:         TypeSeller,
			SubscriptionTier: TierFree,
			CreatedAt:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			PasswordHash:     "h",
		}
		require.NoError(t, repo.Create(ctx, u))

		got, err := repo.GetByID(ctx, "u-3")
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", got.Email)
		assert.False(t, got.Verified)

		exists, err := repo.ExistsByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &User{
			ID:        "u-4",
			Email:     "sarah.seller@email.com",
			UserType:  TypeBuyer,
			CreatedAt: time.Now(),
		})
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
	})

	t.Run("list filters and paginates", func(t *testing.T) {
		users, total, err := repo.List(ctx, ListUsersParams{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, users, 3)
		assert.Equal(t, "u-3", users[0].ID)

		users, total, err = repo.List(ctx, ListUsersParams{UserType: TypeSeller})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, users, 2)

		users, total, err = repo.List(ctx, ListUsersParams{Search: "SARAH"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "2", users[0].ID)

		users, total, err = repo.List(ctx, ListUsersParams{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, users, 1)
	})
}

func TestMemoryRepository(t *testing.T) {
	runRepositoryContract(t, NewMemoryRepository())
}

func TestSQLRepository_SQLite(t *testing.T) {
	runRepositoryContract(t, newSQLiteRepository(t))
}

func TestService_SeedDefaultsAcceptsDemoPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	require.NoError(t, svc.SeedDefaults(ctx))

	u, err := svc.GetByEmail(ctx, "sarah.seller@email.com")
	require.NoError(t, err)

	ok, err := core.VerifyPassword(DemoPassword, u.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	counts, err := svc.CountByType(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[TypeBuyer])
	assert.Equal(t, 1, counts[TypeSeller])
	assert.Equal(t, 0, counts[TypeAdmin])
}

func TestService_SeedAdmin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	require.NoError(t, svc.SeedDefaults(ctx))

	require.NoError(t, svc.SeedAdmin(ctx, "ops@silvershift.test", "correct-horse-battery", "Ops"))
	require.NoError(t, svc.SeedAdmin(ctx, "ops@silvershift.test", "another-password-here", "Ops"))

	u, err := svc.GetByEmail(ctx, "ops@silvershift.test")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	assert.Equal(t, TierElite, u.SubscriptionTier)

	ok, err := core.VerifyPassword("correct-horse-battery", u.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	counts, err := svc.CountByType(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[TypeAdmin])

	assert.ErrorIs(t, svc.SeedAdmin(ctx, " ", "x", "Ops"), core.ErrInvalidInput)
}

func TestService_CreateRequiresIdentity(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	err := svc.Create(context.Background(), &User{Email: "x@y.z"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestProfileMerge(t *testing.T) {
	base := SeedUsers()[0].Profile
	merged := base.Merge(Profile{Bio: ptr("new bio"), BuyerIndustries: []string{"Retail"}})

	assert.Equal(t, "new bio", *merged.Bio)
	assert.Equal(t, []string{"Retail"}, merged.BuyerIndustries)
	assert.Equal(t, *base.Phone, *merged.Phone)
	assert.Equal(t, "Tech executive looking to transition into business ownership", *base.Bio)
}
