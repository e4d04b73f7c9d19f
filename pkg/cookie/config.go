package cookie

import (
	"net/http"
	"strings"
)

// Config describes the session cookie.
type Config struct {
	Name     string `env:"COOKIE_NAME" envDefault:"token"`
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string `env:"COOKIE_DOMAIN" envDefault:""`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"` // Secure is forced on in production by the binary.
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"strict"`
}

// DefaultConfig matches the envDefault values.
func DefaultConfig() Config {
	return Config{Name: "token", Path: "/", SameSite: "strict"}
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return http.SameSiteStrictMode, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, ErrInvalidSameSite
	}
}
