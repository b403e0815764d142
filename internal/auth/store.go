// AngelaMos | 2026
// store.go

// Package auth holds the session store: who is signed in on a profile,
// persisted under a single key so the session survives restarts.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/silvershift/internal/core"
	"github.com/carterperez-dev/silvershift/internal/storage"
	"github.com/carterperez-dev/silvershift/internal/user"
)

const (
	SessionKey              = "silvershift_user"
	DefaultSimulatedLatency = time.Second
)

var tracer = core.Tracer("silvershift/auth")

// Directory is the set of known accounts consulted by Login and Register.
// Both methods wrap core.ErrNotFound and core.ErrDuplicateKey.
type Directory interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}

type Options struct {
	// SimulatedLatency is waited before Login and Register resolve.
	// Zero disables the wait; negative selects the default.
	SimulatedLatency time.Duration
	Logger           *slog.Logger
	Metrics          *core.Metrics
	Now              func() time.Time
}

type RegisterData struct {
	Email    string
	Password string
	Name     string
	UserType string
	Profile  *user.Profile
}

type Store struct {
	kv        storage.KV
	directory Directory
	latency   time.Duration
	logger    *slog.Logger
	metrics   *core.Metrics
	now       func() time.Time

	mu      sync.Mutex
	current *user.User
}

// NewStore restores the saved session from kv. An unreadable entry is
// removed and the store starts signed out.
func NewStore(
	ctx context.Context,
	kv storage.KV,
	directory Directory,
	opts Options,
) (*Store, error) {
	s := &Store{
		kv:        kv,
		directory: directory,
		latency:   opts.SimulatedLatency,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
	if s.latency < 0 {
		s.latency = DefaultSimulatedLatency
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) restore(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, SessionKey)
	if storage.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read saved session: %w", err)
	}

	var saved *user.User
	if err := json.Unmarshal(raw, &saved); err != nil || saved == nil {
		s.logger.Warn("discarding unreadable saved session",
			"key", SessionKey,
			"error", err,
		)
		if err := s.kv.Delete(ctx, SessionKey); err != nil {
			return fmt.Errorf("delete saved session: %w", err)
		}
		return nil
	}

	s.current = saved
	return nil
}

func (s *Store) wait() {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
}

// Login signs in when email names a known account and password matches
// it. A rejected attempt returns false and leaves the session untouched.
func (s *Store) Login(
	ctx context.Context,
	email, password string,
) (ok bool, err error) {
	s.wait()

	ctx, span := tracer.Start(ctx, "auth.Login")
	defer func() {
		span.SetAttributes(attribute.Bool("auth.success", ok))
		core.EndSpan(span, err)
	}()

	found, err := s.directory.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // equalizes timing for unknown accounts
			_, _ = core.VerifyPasswordTimingSafe(password, nil)
			s.metrics.ObserveLogin(false)
			return false, nil
		}
		return false, fmt.Errorf("look up account: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(password, &found.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		s.metrics.ObserveLogin(false)
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.adopt(ctx, found); err != nil {
		return false, err
	}

	s.metrics.ObserveLogin(true)
	return true, nil
}

// Register creates an account and signs it in. It returns false when the
// email is already taken.
func (s *Store) Register(
	ctx context.Context,
	data RegisterData,
) (ok bool, err error) {
	s.wait()

	ctx, span := tracer.Start(ctx, "auth.Register")
	defer func() {
		span.SetAttributes(attribute.Bool("auth.success", ok))
		core.EndSpan(span, err)
	}()

	_, err = s.directory.GetByEmail(ctx, data.Email)
	switch {
	case err == nil:
		s.metrics.ObserveRegistration(false)
		return false, nil
	case !errors.Is(err, core.ErrNotFound):
		return false, fmt.Errorf("look up account: %w", err)
	}

	hash, err := core.HashPassword(data.Password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	created := &user.User{
		ID:               uuid.NewString(),
		Email:            data.Email,
		Name:             data.Name,
		UserType:         data.UserType,
		Verified:         false,
		SubscriptionTier: user.TierFree,
		CreatedAt:        s.now().UTC(),
		PasswordHash:     hash,
	}
	if data.Profile != nil {
		created.Profile = user.Profile{}.Merge(*data.Profile)
	}

	if err := s.directory.Create(ctx, created); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			s.metrics.ObserveRegistration(false)
			return false, nil
		}
		return false, fmt.Errorf("create account: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.adopt(ctx, created); err != nil {
		return false, err
	}

	s.metrics.ObserveRegistration(true)
	return true, nil
}

// Logout signs out and forgets the saved session.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("delete saved session: %w", err)
	}

	s.current = nil
	return nil
}

// UpdateProfile merges update into the signed-in user's profile. It
// returns false when nobody is signed in.
func (s *Store) UpdateProfile(
	ctx context.Context,
	update user.Profile,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return false, nil
	}

	next := *s.current
	next.Profile = s.current.Profile.Merge(update)

	if err := s.adopt(ctx, &next); err != nil {
		return false, err
	}
	return true, nil
}

// adopt persists u and makes it the signed-in user. Callers hold s.mu.
func (s *Store) adopt(ctx context.Context, u *user.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.kv.Set(ctx, SessionKey, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	adopted := *u
	adopted.PasswordHash = ""
	s.current = &adopted
	return nil
}

func (s *Store) CurrentUser() (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return user.User{}, false
	}
	return *s.current, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current != nil
}
