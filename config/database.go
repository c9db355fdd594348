package config

import (
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/NomadCrew/nomad-crew-newsletter/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// URL returns a postgres:// connection URL for golang-migrate and pgx.
func (c *DatabaseConfig) URL() string {
	return c.urlFor(c.Name)
}

// URLWithoutDB points at the server's maintenance database.
func (c *DatabaseConfig) URLWithoutDB() string {
	return c.urlFor("postgres")
}

func (c *DatabaseConfig) urlFor(name string) string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		name,
		sslmode,
	)
}

func (c *DatabaseConfig) AcquireTimeout() time.Duration {
	return time.Duration(c.AcquireTimeoutMS) * time.Millisecond
}

// PoolConfig builds a pgxpool configuration. The pool connects lazily; the
// acquire timeout bounds how long a request waits for the first connection.
func (c *DatabaseConfig) PoolConfig() (*pgxpool.Config, error) {
	log := logger.GetLogger()

	poolConfig, err := pgxpool.ParseConfig(c.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if c.MaxConnections > 0 {
		poolConfig.MaxConns = int32(c.MaxConnections)
	}
	poolConfig.HealthCheckPeriod = 30 * time.Second
	poolConfig.ConnConfig.ConnectTimeout = c.AcquireTimeout()

	log.Infow("Configured database connection pool",
		"host", c.Host,
		"port", c.Port,
		"database", c.Name,
		"sslmode", c.SSLMode,
		"connection_string", logger.MaskConnectionString(c.URL()),
		"max_conns", poolConfig.MaxConns)

	return poolConfig, nil
}

// RedisOptions builds go-redis client options.
func (r *RedisConfig) RedisOptions() *redis.Options {
	opts := &redis.Options{
		Addr:            r.Address,
		Password:        r.Password,
		DB:              r.DB,
		ConnMaxLifetime: time.Hour,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 2 * time.Second,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	}
	if r.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}
