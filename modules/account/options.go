package account

import (
	"log/slog"
	"strings"
	"time"
)

const (
	DefaultVerificationTTL = 24 * time.Hour
	DefaultResetTTL        = time.Hour
	DefaultClientURL       = "http://localhost:5173"
)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithVerificationTTL sets how long email verification codes stay valid.
func WithVerificationTTL(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.verificationTTL = d
		}
	}
}

// WithResetTTL sets how long password reset tokens stay valid.
func WithResetTTL(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.resetTTL = d
		}
	}
}

// WithClientURL builds reset links as base + "/reset-password/" + token.
func WithClientURL(base string) ServiceOption {
	return WithResetURL(resetURLFor(base))
}

// WithResetURL sets the function that turns a reset token into a link.
func WithResetURL(fn func(token string) string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.resetURL = fn
		}
	}
}

// WithClock replaces time.Now. Tests use it to move past expiries.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records operation metrics.
func WithMetrics(m *Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithNonDisclosingForgotPassword makes ForgotPassword succeed silently for
// unknown emails instead of returning ErrUserNotFound.
func WithNonDisclosingForgotPassword() ServiceOption {
	return func(s *Service) {
		s.nonDisclosing = true
	}
}

func resetURLFor(base string) func(string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultClientURL
	}
	return func(token string) string {
		return base + "/reset-password/" + token
	}
}
