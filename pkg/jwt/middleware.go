package jwt

import (
	"net/http"
	"strings"
)

// TokenExtractorFunc pulls a raw token out of a request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// ErrorHandlerFunc writes the rejection response.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	Service      *Service
	Extractor    TokenExtractorFunc // defaults to BearerTokenExtractor
	ErrorHandler ErrorHandlerFunc   // defaults to a plain 401
}

// Middleware rejects requests without a valid session token and stores the
// verified claims in the request context.
func Middleware(cfg MiddlewareConfig) func(next http.Handler) http.Handler {
	if cfg.Service == nil {
		panic("jwt: middleware requires a service")
	}
	if cfg.Extractor == nil {
		cfg.Extractor = BearerTokenExtractor
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := cfg.Extractor(r)
			if err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}

			claims, err := cfg.Service.Parse(raw)
			if err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// BearerTokenExtractor reads "Authorization: Bearer <token>".
func BearerTokenExtractor(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// CookieTokenExtractor reads the token from the named cookie.
func CookieTokenExtractor(name string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", ErrTokenNotFound
		}
		return c.Value, nil
	}
}

// FirstOf tries extractors in order and returns the first token found.
func FirstOf(extractors ...TokenExtractorFunc) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		for _, extract := range extractors {
			if token, err := extract(r); err == nil {
				return token, nil
			}
		}
		return "", ErrTokenNotFound
	}
}
