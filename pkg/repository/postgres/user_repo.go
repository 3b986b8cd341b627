package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/artem13815/travelinfo/pkg/auth"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepository implements auth.UserRepository backed by PostgreSQL (pgx).
// The schema is owned by the goose migrations in pkg/storage/postgres.
type UserRepository struct {
	pool DB
}

func NewUserRepository(pool DB) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	user.Email = auth.NormalizeEmail(user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, user.Username, user.Email, user.PasswordHash, user.CreatedAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.User{}, auth.ErrUserAlreadyExists
		}
		return auth.User{}, err
	}
	user.ID = id
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE lower(email) = $1
	`, auth.NormalizeEmail(email))
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (auth.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		// not a key this store could have issued
		return auth.User{}, auth.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE id = $1
	`, uid)
	return scanUser(row)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	_, err = r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, uid)
	return err
}

func scanUser(row pgx.Row) (auth.User, error) {
	var (
		user      auth.User
		createdAt time.Time
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, err
	}
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
