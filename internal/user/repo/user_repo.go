// Package repo provides data access for the users table. All statements
// are parameterized; email uniqueness is enforced by the table constraint,
// and the unique-violation path is surfaced as ErrDuplicateEmail.
package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mezunhub/alumni-core/internal/user/entity"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert loses to the email
	// uniqueness constraint.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Repository is the store interface consumed by the user service.
type Repository interface {
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetProfile(ctx context.Context, id string) (*entity.Profile, error)
	GetPublicByID(ctx context.Context, id string) (*entity.PublicProfile, error)
	UpdateProfile(ctx context.Context, id string, p entity.ProfilePatch) (*entity.Profile, error)
	IsAdmin(ctx context.Context, id string) (bool, error)
	ListAdminViews(ctx context.Context, limit, offset int) ([]entity.AdminView, error)
	SetAdminByEmail(ctx context.Context, email string, flag bool) error
}

// UserRepo is the PostgreSQL implementation of Repository, using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

var _ Repository = (*UserRepo)(nil)

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the users table if not exists (idempotent).
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
  id VARCHAR(32) PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  workplace TEXT,
  location TEXT,
  sector TEXT,
  seniority TEXT,
  position TEXT,
  is_admin BOOLEAN NOT NULL DEFAULT false,
  points INT NOT NULL DEFAULT 0,
  streak INT NOT NULL DEFAULT 0,
  is_active BOOLEAN NOT NULL DEFAULT true,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_users_sector ON users(sector);
CREATE INDEX IF NOT EXISTS idx_users_location ON users(location);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a new user row. The id and password hash are assigned by
// the caller. A lost race on the email constraint maps to ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	const q = `INSERT INTO users (id, first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err := r.db.QueryRowxContext(ctx, q, u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash).
		Scan(&u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

// EmailExists reports whether a row with the given email exists. Best-effort
// pre-check only; Create remains the arbiter under concurrent registration.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, email); err != nil {
		return false, err
	}
	return exists, nil
}

// GetByEmail returns the full row including the password digest. Login is
// the only caller.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const q = `SELECT id, first_name, last_name, email, password_hash, workplace,
		location, sector, seniority, position, is_admin, points, streak,
		is_active, created_at, updated_at
	  FROM users WHERE email = $1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// GetProfile returns the owner-visible projection; the digest is not
// selected.
func (r *UserRepo) GetProfile(ctx context.Context, id string) (*entity.Profile, error) {
	const q = `SELECT id, first_name, last_name, email, workplace, location,
		sector, seniority, position, points, streak, is_active, created_at
	  FROM users WHERE id = $1`
	var row entity.Profile
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// GetPublicByID returns the unauthenticated subset of a profile.
func (r *UserRepo) GetPublicByID(ctx context.Context, id string) (*entity.PublicProfile, error) {
	const q = `SELECT id, first_name, last_name, workplace, location, sector,
		seniority, position, points, streak
	  FROM users WHERE id = $1`
	var row entity.PublicProfile
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// UpdateProfile applies a partial update: absent fields keep their prior
// values via COALESCE. Returns the updated profile projection.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, p entity.ProfilePatch) (*entity.Profile, error) {
	const q = `UPDATE users
		SET first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			workplace = COALESCE($3, workplace),
			location = COALESCE($4, location),
			sector = COALESCE($5, sector),
			seniority = COALESCE($6, seniority),
			position = COALESCE($7, position),
			updated_at = NOW()
		WHERE id = $8
		RETURNING id, first_name, last_name, email, workplace, location,
			sector, seniority, position, points, streak, is_active, created_at`
	var row entity.Profile
	err := r.db.GetContext(ctx, &row, q,
		p.FirstName, p.LastName, p.Workplace, p.Location, p.Sector, p.Seniority, p.Position, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// IsAdmin re-reads the admin flag from the row. Privileged gates call this
// per request instead of trusting any client-held claim.
func (r *UserRepo) IsAdmin(ctx context.Context, id string) (bool, error) {
	const q = `SELECT is_admin FROM users WHERE id = $1`
	var flag bool
	if err := r.db.GetContext(ctx, &flag, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, err
	}
	return flag, nil
}

// ListAdminViews returns the administrator projection of all accounts,
// newest first.
func (r *UserRepo) ListAdminViews(ctx context.Context, limit, offset int) ([]entity.AdminView, error) {
	const q = `SELECT id, first_name, last_name, email, is_admin, is_active,
		points, streak, created_at
	  FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	views := []entity.AdminView{}
	if err := r.db.SelectContext(ctx, &views, q, limit, offset); err != nil {
		return nil, err
	}
	return views, nil
}

// SetAdminByEmail toggles the admin flag. Reachable only from operator
// tooling, never from a user-facing route.
func (r *UserRepo) SetAdminByEmail(ctx context.Context, email string, flag bool) error {
	const q = `UPDATE users SET is_admin = $2, updated_at = NOW() WHERE email = $1`
	res, err := r.db.ExecContext(ctx, q, email, flag)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
