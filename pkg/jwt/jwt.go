package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTTL is the session lifetime.
	DefaultTTL = 7 * 24 * time.Hour
	// DefaultIssuer is put into the iss claim unless overridden.
	DefaultIssuer = "authservice"
)

// Claims is the session token payload.
type Claims struct {
	UserID string `json:"userId"`
	gojwt.RegisteredClaims
}

// Option configures a Service.
type Option func(*Service)

// WithTTL sets the lifetime of issued tokens. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithIssuer(issuer string) Option {
	return func(s *Service) { s.issuer = issuer }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service issues and verifies HS256 session tokens.
// It is safe for concurrent use; the key is never modified after New.
type Service struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// New creates a Service. An empty signing key is a configuration error and
// returns ErrMissingSigningKey.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	s := &Service{
		key:    append([]byte(nil), signingKey...),
		ttl:    DefaultTTL,
		issuer: DefaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromString is New for string secrets loaded from the environment.
func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

// TTL reports the lifetime of issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a session token bound to userID.
func (s *Service) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, ErrMissingSubject
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, errors.Join(ErrSigningFailed, err)
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature, algorithm and expiry of tokenString.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims,
		func(t *gojwt.Token) (any, error) { return s.key, nil },
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(s.issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return nil, errors.Join(ErrExpiredToken, err)
	case err != nil:
		return nil, errors.Join(ErrInvalidToken, err)
	case !token.Valid:
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
