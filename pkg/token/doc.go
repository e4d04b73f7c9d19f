// Package token generates the one-time secrets used by account flows:
// short numeric codes for email verification and high-entropy hex tokens
// for password reset. Every call reads fresh bytes from crypto/rand.
package token
