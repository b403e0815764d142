// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/silvershift/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SeedDefaults loads the known accounts, all accepting DemoPassword.
// Accounts already present are left untouched.
func (s *Service) SeedDefaults(ctx context.Context) error {
	hash, err := core.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	return s.SeedDefaultsWithHash(ctx, hash)
}

// SeedDefaultsWithHash loads the known accounts with a precomputed hash.
func (s *Service) SeedDefaultsWithHash(ctx context.Context, hash string) error {
	if err := s.repo.Seed(ctx, SeedUsers(), hash); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	return nil
}

// SeedAdmin adds one ADMIN account. Its id is derived from the email so
// repeated starts keep the same account, and an existing one is left
// untouched, password included.
func (s *Service) SeedAdmin(ctx context.Context, email, password, name string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fmt.Errorf("seed admin: %w", core.ErrInvalidInput)
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	admin := User{
		ID:               uuid.NewSHA1(uuid.NameSpaceURL, []byte("silvershift:admin:"+email)).String(),
		Email:            email,
		Name:             name,
		UserType:         TypeAdmin,
		Verified:         true,
		SubscriptionTier: TierElite,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.Seed(ctx, []User{admin}, hash); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

// GetByEmail matches the address exactly as stored.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) Create(ctx context.Context, user *User) error {
	if user.ID == "" || user.Email == "" {
		return fmt.Errorf("create user: %w", core.ErrInvalidInput)
	}

	return s.repo.Create(ctx, user)
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// CountByType returns how many accounts exist for each user type.
func (s *Service) CountByType(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 3)
	for _, t := range []string{TypeBuyer, TypeSeller, TypeAdmin} {
		_, total, err := s.repo.List(ctx, ListUsersParams{UserType: t, PageSize: 1})
		if err != nil {
			return nil, fmt.Errorf("count %s users: %w", t, err)
		}
		counts[t] = total
	}
	return counts, nil
}
