// Package password hashes and verifies user passwords with bcrypt.
//
// The bcrypt output is a self-describing modular-crypt string ($2a$10$...),
// so the algorithm and cost travel with every stored hash and a cost change
// does not invalidate existing hashes.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor used when none is configured.
	DefaultCost = 10
	// MinCost is the lowest work factor accepted by NewBcrypt.
	MinCost = 10
	// MaxLength is the bcrypt input limit in bytes; longer inputs are rejected instead of truncated.
	MaxLength = 72
)

// Hasher turns plaintext passwords into irreversible hashes and checks them.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// Option configures a Bcrypt hasher.
type Option func(*Bcrypt)

// WithCost sets the bcrypt work factor.
func WithCost(cost int) Option {
	return func(b *Bcrypt) { b.cost = cost }
}

// Bcrypt is a Hasher backed by golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. The cost must be within [MinCost, bcrypt.MaxCost].
func NewBcrypt(opts ...Option) (*Bcrypt, error) {
	b := &Bcrypt{cost: DefaultCost}
	for _, opt := range opts {
		opt(b)
	}

	switch {
	case b.cost < MinCost:
		return nil, ErrCostTooLow
	case b.cost > bcrypt.MaxCost:
		return nil, ErrCostTooHigh
	}
	return b, nil
}

// Cost reports the configured work factor.
func (b *Bcrypt) Cost() int { return b.cost }

// Hash returns a salted bcrypt hash of plain.
func (b *Bcrypt) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	if len(plain) > MaxLength {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", errors.Join(ErrHashFailed, err)
	}
	return string(hash), nil
}

// Verify reports whether plain matches hash. The comparison is constant time.
// A malformed or empty hash never verifies.
func (b *Bcrypt) Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Cost extracts the work factor embedded in a stored hash.
func Cost(hash string) (int, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return 0, errors.Join(ErrMalformedHash, err)
	}
	return cost, nil
}
