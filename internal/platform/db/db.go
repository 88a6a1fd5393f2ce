package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const maxConnectWait = 30 * time.Second

// OpenPostgres opens a pooled postgres connection through the pgx stdlib driver.
func OpenPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := Ping(ctx, "postgres", db.PingContext); err != nil {
		db.Close()
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}

// OpenSQLite opens a single-connection sqlite database with foreign keys enabled.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", path, err)
	}

	// One connection: a :memory: database exists per connection and
	// sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("openDB: %s: %w", p, err)
		}
	}

	return db, nil
}

// Ping retries check with exponential backoff until it succeeds or maxConnectWait passes.
func Ping(ctx context.Context, name string, check func(context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxConnectWait

	return backoff.RetryNotify(
		func() error { return check(ctx) },
		backoff.WithContext(b, ctx),
		func(err error, wait time.Duration) {
			log.Warn().Err(err).Str("backend", name).Dur("retry_in", wait).Msg("Backend not ready")
		},
	)
}
