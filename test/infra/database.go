package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fleetops/db"
)

// Prepare applies the embedded goose migrations against the DSN and returns
// a ready connection pool. Migrations are versioned, so re-running against a
// shared database is a no-op.
func Prepare(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if err := db.Migrate(ctx, dsn); err != nil {
		return nil, fmt.Errorf("infra: apply migrations: %w", err)
	}

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("infra: connect pool: %w", err)
	}
	return pool, nil
}
