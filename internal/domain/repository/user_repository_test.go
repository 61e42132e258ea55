package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"account_api/internal/common"
	"account_api/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPgUserRepository(db), mock
}

func sampleUser() *model.User {
	return &model.User{
		ID:             "u1",
		FirstName:      "Ann",
		LastName:       "Lee",
		Username:       "ann1",
		Email:          "ann@x.com",
		HashedPassword: "$2a$10$hash",
	}
}

func userRows(u *model.User, createdAt, updatedAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "username", "email", "hashed_password", "created_at", "updated_at",
	}).AddRow(u.ID, u.FirstName, u.LastName, u.Username, u.Email, u.HashedPassword, createdAt, updatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	user := sampleUser()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(user.ID, user.FirstName, user.LastName, user.Username, user.Email, user.HashedPassword).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, now, user.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolationMapsToConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	user := sampleUser()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), user)
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock := newMockRepo(t)
	want := sampleUser()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("ann@x.com").
		WillReturnRows(userRows(want, now, now))

	got, err := repo.FindByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, want.Username, got.Username)
	assert.Equal(t, want.HashedPassword, got.HashedPassword)
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "first_name", "last_name", "username", "email", "hashed_password", "created_at", "updated_at",
		}))

	_, err := repo.FindByEmail(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "first_name", "last_name", "username", "email", "hashed_password", "created_at", "updated_at",
		}))

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	user := sampleUser()
	updatedAt := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
		WithArgs(user.FirstName, user.LastName, user.Username, user.Email, user.ID).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updatedAt))

	err := repo.Update(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, updatedAt, user.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_UniqueViolationMapsToConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Update(context.Background(), sampleUser())
	require.ErrorIs(t, err, common.ErrConflict)
}
