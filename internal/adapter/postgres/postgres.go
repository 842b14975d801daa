// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// DB wraps a *sql.DB shared by the repositories in this package.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL and runs migrations. The initial ping is
// retried with exponential backoff for up to connectTimeout so the server can
// start alongside its database.
func Open(ctx context.Context, connStr string, connectTimeout time.Duration, log zerolog.Logger) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = connectTimeout

	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return s.PingContext(pctx)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("database not ready")
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(bo, ctx), notify); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	log.Info().Msg("database ready")
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bmi_records (
			id BIGSERIAL PRIMARY KEY,
			weight DOUBLE PRECISION NOT NULL,
			height DOUBLE PRECISION NOT NULL,
			bmi DOUBLE PRECISION NOT NULL,
			classification TEXT NOT NULL,
			bmr DOUBLE PRECISION,
			ideal_weight DOUBLE PRECISION,
			daily_calorie_needs DOUBLE PRECISION,
			age INTEGER NOT NULL DEFAULT 0,
			sex TEXT NOT NULL DEFAULT 'male',
			activity_level INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_bmi_records_created_at ON bmi_records(created_at);",
		"CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY, username TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, user_agent TEXT NOT NULL DEFAULT '', ip TEXT NOT NULL DEFAULT '', expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
