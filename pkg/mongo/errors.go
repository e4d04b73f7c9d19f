package mongo

import "errors"

var (
	ErrConnectFailed     = errors.New("mongo: could not reach the primary")
	ErrHealthcheckFailed = errors.New("mongo: primary ping failed")
)
