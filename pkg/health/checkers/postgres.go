package checkers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pingTimeout bounds a single dependency probe.
const pingTimeout = time.Second

var errUsersTableMissing = errors.New("users table missing, migrations not applied")

// PostgresChecker reports ready once the pool answers and the users
// table exists.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

func (c *PostgresChecker) Name() string { return "postgres" }

func (c *PostgresChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.pool.Ping(ctx); err != nil {
		return err
	}
	var exists bool
	if err := c.pool.QueryRow(ctx, `SELECT to_regclass('users') IS NOT NULL`).Scan(&exists); err != nil {
		return fmt.Errorf("lookup users table: %w", err)
	}
	if !exists {
		return errUsersTableMissing
	}
	return nil
}
