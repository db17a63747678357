package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/scholarsync/service-api-go/internal/auth/entity"
)

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// ErrDuplicateEmail is returned when an insert trips the citext unique
// constraint on email. The constraint is the authoritative guard; the
// service-level existence check only produces a friendlier message.
var ErrDuplicateEmail = fmt.Errorf("duplicate email")

const uniqueViolation = "23505"

// EnsureTable creates the users table if not exists (idempotent).
// This is a convenience for early development; prefer migrations in production.
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE EXTENSION IF NOT EXISTS citext;
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email CITEXT NOT NULL UNIQUE,
  username TEXT NOT NULL,
  full_name TEXT NOT NULL DEFAULT '',
  student_id TEXT NOT NULL DEFAULT '',
  major TEXT NOT NULL DEFAULT '',
  year_level INT NOT NULL DEFAULT 1,
  password_hash TEXT NOT NULL,
  plan_type TEXT NOT NULL DEFAULT 'base',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const userColumns = `id, email, username, full_name, student_id, major, year_level,
	password_hash, plan_type, created_at, updated_at`

// Create inserts a new user row and hydrates the db-assigned timestamps.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	const q = `INSERT INTO users (id, email, username, full_name, student_id, major, year_level, password_hash, plan_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q,
		u.ID, u.Email, u.Username, u.FullName, u.StudentID, u.Major, u.YearLevel, u.PasswordHash, u.PlanType,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByEmail returns a user matched by email (case-insensitive due to citext)
// or sql.ErrNoRows.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByID fetches a full user row.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateProfile applies the non-nil fields of the changeset and returns the
// updated row, or sql.ErrNoRows when the user does not exist.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, cs *entity.ProfileChangeset) (*entity.User, error) {
	sets := []string{"updated_at=NOW()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if cs.Username != nil {
		add("username", *cs.Username)
	}
	if cs.FullName != nil {
		add("full_name", *cs.FullName)
	}
	if cs.Major != nil {
		add("major", *cs.Major)
	}
	if cs.YearLevel != nil {
		add("year_level", *cs.YearLevel)
	}
	q := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id=$1 RETURNING ` + userColumns
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdatePlan sets the plan tier and returns the updated row.
func (r *UserRepo) UpdatePlan(ctx context.Context, id string, planType string) (*entity.User, error) {
	q := `UPDATE users SET plan_type=$2, updated_at=NOW() WHERE id=$1 RETURNING ` + userColumns
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, id, planType); err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes the user row. Owned tasks go with it through the
// ON DELETE CASCADE constraint on tasks.user_id.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
