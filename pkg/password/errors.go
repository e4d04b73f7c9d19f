package password

import "errors"

var (
	ErrEmptyPassword   = errors.New("password: empty password")
	ErrPasswordTooLong = errors.New("password: longer than 72 bytes")
	ErrCostTooLow      = errors.New("password: bcrypt cost below minimum")
	ErrCostTooHigh     = errors.New("password: bcrypt cost above maximum")
	ErrHashFailed      = errors.New("password: failed to hash")
	ErrMalformedHash   = errors.New("password: malformed hash")
)
