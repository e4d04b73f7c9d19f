package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/dmitrymomot/authservice/pkg/httpserver"
)

// Healthcheck returns the readiness probe for the user store. Writes go to
// the primary, so that is the member it pings.
func Healthcheck(client *mongo.Client) httpserver.Check {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
