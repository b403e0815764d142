// AngelaMos | 2026
// memory.go

package user

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/carterperez-dev/silvershift/internal/core"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]*User
}

// NewMemoryRepository returns an empty directory that lives for the
// lifetime of the process.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (r *memoryRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	if _, ok := r.byID[user.ID]; ok {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	u := *user
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = &u
	return nil
}

func (r *memoryRepository) Seed(
	_ context.Context,
	users []User,
	passwordHash string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range users {
		u := users[i]
		if _, ok := r.byID[u.ID]; ok {
			continue
		}
		if _, ok := r.byEmail[u.Email]; ok {
			continue
		}
		u.PasswordHash = passwordHash
		r.byID[u.ID] = &u
		r.byEmail[u.Email] = &u
	}
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (r *memoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *memoryRepository) List(
	_ context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()
	search := strings.ToLower(params.Search)

	r.mu.RLock()
	matched := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.Name), search) {
			continue
		}
		if params.UserType != "" && u.UserType != params.UserType {
			continue
		}
		if params.Tier != "" && u.SubscriptionTier != params.Tier {
			continue
		}
		matched = append(matched, *u)
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	total := len(matched)
	start := min(params.Offset(), total)
	end := min(start+params.PageSize, total)

	return matched[start:end], total, nil
}
