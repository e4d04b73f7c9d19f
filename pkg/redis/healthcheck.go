package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authservice/pkg/httpserver"
)

// Healthcheck returns the readiness probe for the rate limit store.
func Healthcheck(client redis.UniversalClient) httpserver.Check {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
