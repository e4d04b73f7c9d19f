package mongo

import (
	"context"
	"errors"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// New connects to MongoDB and pings the primary, retrying with a constant
// backoff so the service survives the database starting after it.
func New(ctx context.Context, cfg Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites).
		SetRetryReads(cfg.RetryReads)

	var client *mongo.Client
	backoff := retry.WithMaxRetries(cfg.RetryAttempts, retry.NewConstant(cfg.RetryInterval))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c, err := mongo.Connect(opts)
		if err != nil {
			// Connect only fails on invalid options; retrying will not help.
			return err
		}
		if err := c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.WithoutCancel(ctx))
			return retry.RetryableError(err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrConnectFailed, err)
	}

	return client, nil
}

// NewWithDatabase connects and returns the database named in cfg.
func NewWithDatabase(ctx context.Context, cfg Config) (*mongo.Database, error) {
	client, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(cfg.Database), nil
}

// IsDuplicateKeyError reports whether err is a unique index violation.
func IsDuplicateKeyError(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}

// IsNotFoundError reports whether err means the query matched no document.
func IsNotFoundError(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
