// Package dbpool constructs the process-wide Postgres connection pool,
// grounded on the teacher's internal/data/conn.go pgxpool construction,
// trimmed to only the knobs the export engine needs: no Redis, no
// third-party API clients.
package dbpool

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Options configures pool construction. Open applies every field as given;
// the defaults (cap 10, min 2, idle timeout 30s, connect timeout 2s) come
// from config.Load.
type Options struct {
	DatabaseURL        string
	MaxConns           int32
	MinConns           int32
	IdleTimeoutSecs    int
	ConnectTimeoutSecs int
}

// Open builds a *pgxpool.Pool per Options. The pool is the one
// process-wide singleton named in spec.md §9; callers are responsible for
// calling Close on shutdown after draining in-flight exports.
func Open(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(opts.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("dbpool: parse config: %w", err)
	}

	poolConfig.MaxConns = opts.MaxConns
	poolConfig.MinConns = opts.MinConns
	poolConfig.MaxConnIdleTime = time.Duration(opts.IdleTimeoutSecs) * time.Second
	poolConfig.ConnConfig.ConnectTimeout = time.Duration(opts.ConnectTimeoutSecs) * time.Second
	poolConfig.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("dbpool: connect: %w", err)
	}
	return pool, nil
}

// OpenWithRetry calls Open, retrying once after a short delay if the
// failure looks transient (isConnectionError). Startup is the only place
// the export engine retries a database operation; spec.md §4.1 forbids
// retry once an export's cursor is open.
func OpenWithRetry(ctx context.Context, opts Options, retryDelay time.Duration) (*pgxpool.Pool, error) {
	pool, err := Open(ctx, opts)
	if err == nil {
		return pool, nil
	}
	if !isConnectionError(err) {
		return nil, err
	}

	select {
	case <-time.After(retryDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return Open(ctx, opts)
}
