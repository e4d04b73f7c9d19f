package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Manager writes, reads and clears a single named cookie. The value is
// stored as is: session tokens are already signed.
// Cookies are always HttpOnly.
type Manager struct {
	name     string
	path     string
	domain   string
	secure   bool
	sameSite http.SameSite
	now      func() time.Time
}

type Option func(*Manager)

// WithSecure overrides the Secure flag from the config.
func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func New(cfg Config, opts ...Option) (*Manager, error) {
	if cfg.Name == "" {
		return nil, ErrEmptyName
	}
	sameSite, err := parseSameSite(cfg.SameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, cfg.SameSite)
	}

	m := &Manager{
		name:     cfg.Name,
		path:     cfg.Path,
		domain:   cfg.Domain,
		secure:   cfg.Secure,
		sameSite: sameSite,
		now:      time.Now,
	}
	if m.path == "" {
		m.path = "/"
	}
	for _, opt := range opts {
		opt(m)
	}

	// Browsers drop SameSite=None cookies that are not Secure.
	if m.sameSite == http.SameSiteNoneMode && !m.secure {
		return nil, ErrInsecureSameSiteNone
	}
	return m, nil
}

// Name is the cookie name.
func (m *Manager) Name() string { return m.name }

// Set writes value with an expiry matching expiresAt.
func (m *Manager) Set(w http.ResponseWriter, value string, expiresAt time.Time) {
	maxAge := int(expiresAt.Sub(m.now()).Seconds())
	if maxAge <= 0 {
		m.Delete(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		Expires:  expiresAt.UTC(),
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: m.sameSite,
	})
}

// Get returns the cookie value or ErrCookieNotFound.
func (m *Manager) Get(r *http.Request) (string, error) {
	c, err := r.Cookie(m.name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	if c.Value == "" {
		return "", ErrCookieNotFound
	}
	return c.Value, nil
}

// Delete tells the client to drop the cookie.
func (m *Manager) Delete(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     m.path,
		Domain:   m.domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: m.sameSite,
	})
}
