// Package db owns the PostgreSQL connection pool and schema migrations.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/NomadCrew/nomad-crew-newsletter/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DatabaseClient wraps the shared pool. Connections are opened on first use.
type DatabaseClient struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// NewDatabaseClient builds the pool without contacting the server, so the
// process can start while the database is still coming up.
func NewDatabaseClient(cfg *config.DatabaseConfig) (*DatabaseClient, error) {
	poolConfig, err := cfg.PoolConfig()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &DatabaseClient{pool: pool, acquireTimeout: cfg.AcquireTimeout()}, nil
}

func (dc *DatabaseClient) GetPool() *pgxpool.Pool {
	return dc.pool
}

// Ping checks connectivity, waiting at most the acquire timeout.
func (dc *DatabaseClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, dc.acquireTimeout)
	defer cancel()
	return dc.pool.Ping(ctx)
}

func (dc *DatabaseClient) Close() {
	dc.pool.Close()
}
