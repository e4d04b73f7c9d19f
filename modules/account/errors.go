package account

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrEmailTaken            = errors.New("user already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrUserNotFound          = errors.New("user not found")

	// ErrStaleUser is returned by Storage.Update when the stored version no
	// longer matches the one the caller read.
	ErrStaleUser = errors.New("user was modified concurrently")
)

var (
	ErrStorageFailed      = errors.New("account storage failed")
	ErrHashFailed         = errors.New("failed to hash password")
	ErrTokenFailed        = errors.New("failed to generate token")
	ErrSessionFailed      = errors.New("failed to issue session")
	ErrNotificationFailed = errors.New("failed to send notification")
)
