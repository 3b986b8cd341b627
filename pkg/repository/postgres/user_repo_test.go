package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/travelinfo/pkg/auth"
)

var userColumns = []string{"id", "username", "email", "password_hash", "created_at"}

func newMockRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewUserRepository(mock), mock
}

func TestUserRepository_CreateReturnsStoreID(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "a@x.io", "hash", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id.String()))

	u, err := repo.Create(context.Background(), auth.User{Username: "alice", Email: " A@X.io", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, id.String(), u.ID)
	assert.Equal(t, "a@x.io", u.Email)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestUserRepository_CreateUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "a@x.io", "hash", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"})

	_, err := repo.Create(context.Background(), auth.User{Username: "alice", Email: "a@x.io", PasswordHash: "hash"})
	assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
}

func TestUserRepository_CreateOtherErrorPassesThrough(t *testing.T) {
	repo, mock := newMockRepo(t)
	cause := &pgconn.PgError{Code: "08006", Message: "connection failure"}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "a@x.io", "hash", pgxmock.AnyArg()).
		WillReturnError(cause)

	_, err := repo.Create(context.Background(), auth.User{Username: "alice", Email: "a@x.io", PasswordHash: "hash"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrUserAlreadyExists)
	assert.ErrorAs(t, err, new(*pgconn.PgError))
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM users WHERE lower\(email\) = \$1`).
		WithArgs("a@x.io").
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(id.String(), "alice", "a@x.io", "hash", created))

	u, err := repo.GetByEmail(context.Background(), "A@x.io ")
	require.NoError(t, err)
	assert.Equal(t, auth.User{ID: id.String(), Username: "alice", Email: "a@x.io", PasswordHash: "hash", CreatedAt: created}, u)
}

func TestUserRepository_GetByEmailNoRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM users WHERE lower\(email\) = \$1`).
		WithArgs("b@x.io").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "b@x.io")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestUserRepository_GetByIDNoRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id.String())
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestUserRepository_GetByIDMalformed(t *testing.T) {
	repo, _ := newMockRepo(t)

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Delete(context.Background(), id.String()))

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs(id).
		WillReturnError(errors.New("conn closed"))
	assert.Error(t, repo.Delete(context.Background(), id.String()))
}
