package token

import "errors"

var (
	ErrInvalidLength = errors.New("token: invalid length")
	ErrEntropy       = errors.New("token: failed to read random data")
)
