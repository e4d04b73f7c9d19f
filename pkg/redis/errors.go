package redis

import "errors"

var (
	ErrEmptyConnectionURL   = errors.New("redis: REDIS_URL is empty")
	ErrInvalidConnectionURL = errors.New("redis: invalid connection url")
	ErrNotReady             = errors.New("redis: server did not answer ping before the deadline")
	ErrHealthcheckFailed    = errors.New("redis: ping failed")
)
