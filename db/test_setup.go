package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB migrates the database at connectionString and returns a pool
// connected to it.
func SetupTestDB(ctx context.Context, connectionString string) (*pgxpool.Pool, error) {
	if err := RunMigrations(connectionString); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach test database: %w", err)
	}
	return pool, nil
}

// CleanupTestDB removes every subscription row, keeping the schema.
func CleanupTestDB(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE TABLE subscriptions`)
	return err
}
