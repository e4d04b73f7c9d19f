package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// Connect opens a pgx pool and pings it. Failed attempts back off linearly
// (interval, 2x interval, ...) so restarted services do not hammer the server.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	poolCfg.MaxConns = cfg.MaxOpenConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	var pool *pgxpool.Pool
	backoff := retry.WithMaxRetries(cfg.RetryAttempts, linear(cfg.RetryInterval))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return retry.RetryableError(err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrConnectFailed, err)
	}

	return pool, nil
}

func linear(interval time.Duration) retry.Backoff {
	var attempt time.Duration
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return attempt * interval, false
	})
}
