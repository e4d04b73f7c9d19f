package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

// Connect parses cfg.ConnectionURL and pings the server until it answers,
// RetryAttempts runs out or ConnectTimeout elapses.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidConnectionURL, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var client *redis.Client
	backoff := retry.WithMaxRetries(cfg.RetryAttempts, retry.NewConstant(cfg.RetryInterval))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		c := redis.NewClient(opts)
		if err := c.Ping(ctx).Err(); err != nil {
			_ = c.Close()
			return retry.RetryableError(err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrNotReady, err)
	}

	return client, nil
}
