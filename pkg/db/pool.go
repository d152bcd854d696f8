package db

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuspathway/leads-api/config"
)

// containsSSLMode checks if DATABASE_URL carries an explicit sslmode parameter
func containsSSLMode(url string) bool {
	return strings.Contains(url, "sslmode=")
}

// configureTLS decides the TLS mode for the storage connection.
// Managed PostgreSQL offerings require TLS but typically present certificates
// that don't verify against the system roots, so production connects with
// encryption but without hostname verification unless the URL pins an
// explicit sslmode. Development (localhost) connects in plain text.
func configureTLS(databaseURL string, production bool) *tls.Config {
	if !production || databaseURL == "" || containsSSLMode(databaseURL) {
		// Explicit sslmode is honored by pgx itself; nothing to override.
		return nil
	}
	return &tls.Config{InsecureSkipVerify: true} //nolint:gosec // managed DB certs don't chain to system roots
}

// NewPool creates a new PostgreSQL connection pool.
//
// Pool settings:
//   - MaxConns / MinConns from configuration
//   - HealthCheckPeriod: 30s
//   - MaxConnLifetime: 1h
//   - MaxConnIdleTime: 30m
//
// The pool is process-wide state: it is created once at startup, shared by
// all request handlers, and closed at process exit.
func NewPool(ctx context.Context, dbCfg config.DatabaseConfig, production bool) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dbCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if tlsConfig := configureTLS(dbCfg.URL, production); tlsConfig != nil {
		poolConfig.ConnConfig.TLSConfig = tlsConfig
	}

	poolConfig.MaxConns = dbCfg.MaxConns
	poolConfig.MinConns = dbCfg.MinConns
	poolConfig.HealthCheckPeriod = 30 * time.Second
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection by pinging database
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
