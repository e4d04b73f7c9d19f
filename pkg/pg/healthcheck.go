package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authservice/pkg/httpserver"
)

// Healthcheck returns the readiness probe for the users table's pool.
func Healthcheck(pool *pgxpool.Pool) httpserver.Check {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
