package jwt

import "errors"

var (
	ErrInvalidToken      = errors.New("jwt: invalid token")
	ErrExpiredToken      = errors.New("jwt: token is expired")
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrMissingSubject    = errors.New("jwt: missing subject")
	ErrInvalidClaims     = errors.New("jwt: invalid claims")
	ErrSigningFailed     = errors.New("jwt: failed to sign token")
	ErrTokenNotFound     = errors.New("jwt: token not found in request")
)
