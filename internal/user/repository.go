// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/silvershift/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	Seed(ctx context.Context, users []User, passwordHash string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

type userRow struct {
	ID               string `db:"id"`
	Email            string `db:"email"`
	PasswordHash     string `db:"password_hash"`
	Name             string `db:"name"`
	UserType         string `db:"user_type"`
	Verified         bool   `db:"verified"`
	SubscriptionTier string `db:"subscription_tier"`
	Profile          string `db:"profile"`
	CreatedAt        string `db:"created_at"`
}

const userColumns = `id, email, password_hash, name, user_type, verified,
		       subscription_tier, profile, created_at`

func toRow(u *User) (userRow, error) {
	profile, err := json.Marshal(u.Profile)
	if err != nil {
		return userRow{}, fmt.Errorf("encode profile: %w", err)
	}

	return userRow{
		ID:               u.ID,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		Name:             u.Name,
		UserType:         u.UserType,
		Verified:         u.Verified,
		SubscriptionTier: u.SubscriptionTier,
		Profile:          string(profile),
		CreatedAt:        u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func (r userRow) toUser() (*User, error) {
	u := &User{
		ID:               r.ID,
		Email:            r.Email,
		PasswordHash:     r.PasswordHash,
		Name:             r.Name,
		UserType:         r.UserType,
		Verified:         r.Verified,
		SubscriptionTier: r.SubscriptionTier,
	}

	if err := json.Unmarshal([]byte(r.Profile), &u.Profile); err != nil {
		return nil, fmt.Errorf("decode profile of %s: %w", r.ID, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode created_at of %s: %w", r.ID, err)
	}
	u.CreatedAt = createdAt

	return u, nil
}

func (r *repository) Create(ctx context.Context, user *User) error {
	row, err := toRow(user)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = r.db.ExecContext(ctx, query,
		row.ID,
		row.Email,
		row.PasswordHash,
		row.Name,
		row.UserType,
		row.Verified,
		row.SubscriptionTier,
		row.Profile,
		row.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// Seed inserts users that are not present yet, all with the same hash.
func (r *repository) Seed(
	ctx context.Context,
	users []User,
	passwordHash string,
) error {
	query := r.db.Rebind(`
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`)

	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for i := range users {
			u := users[i]
			u.PasswordHash = passwordHash

			row, err := toRow(&u)
			if err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}

			if _, err := tx.ExecContext(ctx, query,
				row.ID,
				row.Email,
				row.PasswordHash,
				row.Name,
				row.UserType,
				row.Verified,
				row.SubscriptionTier,
				row.Profile,
				row.CreatedAt,
			); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)

	var row userRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return row.toUser()
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)

	var row userRow
	err := r.db.GetContext(ctx, &row, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return row.toUser()
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`)

	var n int
	if err := r.db.GetContext(ctx, &n, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return n > 0, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	conditions := []string{"1 = 1"}
	var args []any

	if params.Search != "" {
		conditions = append(conditions,
			`(LOWER(email) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(strings.ToLower(params.Search)) + "%"
		args = append(args, pattern, pattern)
	}

	if params.UserType != "" {
		conditions = append(conditions, "user_type = ?")
		args = append(args, params.UserType)
	}

	if params.Tier != "" {
		conditions = append(conditions, "subscription_tier = ?")
		args = append(args, params.Tier)
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := r.db.Rebind("SELECT COUNT(*) FROM users WHERE " + whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := r.db.Rebind(`
		SELECT ` + userColumns + `
		FROM users
		WHERE ` + whereClause + `
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`)

	args = append(args, params.PageSize, params.Offset())

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	users := make([]User, 0, len(rows))
	for _, row := range rows {
		u, err := row.toUser()
		if err != nil {
			return nil, 0, fmt.Errorf("list users: %w", err)
		}
		users = append(users, *u)
	}

	return users, total, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
