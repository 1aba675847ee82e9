package repo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mezunhub/alumni-core/internal/user/entity"
)

func newMockRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(sqlx.NewDb(db, "postgres")), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("id-1", "Ada", "Lovelace", "ada@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	u := &entity.User{
		ID:           "id-1",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "hash",
	}
	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := repo.Create(context.Background(), &entity.User{
		ID: "id-2", FirstName: "A", LastName: "B", Email: "dup@example.com", PasswordHash: "h",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailExists(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail_IncludesDigest(t *testing.T) {
	repo, mock := newMockRepo(t)

	cols := []string{"id", "first_name", "last_name", "email", "password_hash",
		"workplace", "location", "sector", "seniority", "position",
		"is_admin", "points", "streak", "is_active", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"id-1", "Ada", "Lovelace", "ada@example.com", "$2a$10$hash",
			nil, nil, nil, nil, nil,
			true, 10, 2, true, time.Now(), nil))

	u, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
	assert.True(t, u.IsAdmin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_PartialPatchArgs(t *testing.T) {
	repo, mock := newMockRepo(t)

	workplace := "Analytics Engine Co"
	cols := []string{"id", "first_name", "last_name", "email", "workplace",
		"location", "sector", "seniority", "position", "points", "streak",
		"is_active", "created_at"}
	// only the workplace arg is non-nil; COALESCE keeps everything else
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
		WithArgs(nil, nil, &workplace, nil, nil, nil, nil, "id-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"id-1", "Ada", "Lovelace", "ada@example.com", workplace,
			nil, nil, nil, nil, 0, 0, true, time.Now()))

	p, err := repo.UpdateProfile(context.Background(), "id-1", entity.ProfilePatch{Workplace: &workplace})
	require.NoError(t, err)
	require.NotNil(t, p.Workplace)
	assert.Equal(t, workplace, *p.Workplace)
	assert.Equal(t, "Ada", p.FirstName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.UpdateProfile(context.Background(), "missing", entity.ProfilePatch{})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_OmitsDigestColumn(t *testing.T) {
	repo, mock := newMockRepo(t)

	cols := []string{"id", "first_name", "last_name", "email", "workplace",
		"location", "sector", "seniority", "position", "points", "streak",
		"is_active", "created_at"}
	mock.ExpectQuery(`SELECT id, first_name, last_name, email, workplace`).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"id-1", "Ada", "Lovelace", "ada@example.com", nil,
			nil, nil, nil, nil, 5, 1, true, time.Now()))

	p, err := repo.GetProfile(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, 5, p.Points)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAdmin(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT is_admin FROM users WHERE id = $1`)).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"is_admin"}).AddRow(false))

	flag, err := repo.IsAdmin(context.Background(), "id-1")
	require.NoError(t, err)
	assert.False(t, flag)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAdminByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET is_admin`)).
		WithArgs("ghost@example.com", true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetAdminByEmail(context.Background(), "ghost@example.com", true)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAdminByEmail_Success(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET is_admin`)).
		WithArgs("ada@example.com", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetAdminByEmail(context.Background(), "ada@example.com", true))
	require.NoError(t, mock.ExpectationsWereMet())
}
