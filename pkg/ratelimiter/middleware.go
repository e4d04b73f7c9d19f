package ratelimiter

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
)

const maxKeyLength = 64

// KeyFunc derives the bucket key from a request.
type KeyFunc func(r *http.Request) string

// Composite joins the non-empty keys with ":". Keys longer than 64 bytes are
// replaced by their FNV-1a hash.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}
		if len(parts) == 0 {
			return ""
		}

		combined := strings.Join(parts, ":")
		if len(combined) <= maxKeyLength {
			return combined
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(combined))
		return strconv.FormatUint(h.Sum64(), 36)
	}
}

// Static returns a KeyFunc yielding a fixed string, useful to namespace routes.
func Static(key string) KeyFunc {
	return func(*http.Request) string { return key }
}

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	Limiter *Bucket
	Key     KeyFunc
	// OnLimit writes the 429 response. Defaults to a plain-text body.
	OnLimit func(w http.ResponseWriter, r *http.Request, res *Result)
	// OnError handles store failures. Defaults to a plain 500.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware enforces the limit and sets X-RateLimit-* headers.
// Requests whose key is empty are not limited.
func Middleware(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	if cfg.Limiter == nil || cfg.Key == nil {
		panic("ratelimiter: middleware requires a limiter and a key func")
	}
	if cfg.OnLimit == nil {
		cfg.OnLimit = func(w http.ResponseWriter, _ *http.Request, _ *Result) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}
	}
	if cfg.OnError == nil {
		cfg.OnError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.Key(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := cfg.Limiter.Allow(r.Context(), key)
			if err != nil {
				cfg.OnError(w, r, err)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				if secs := int(res.RetryAfter().Seconds()); secs > 0 {
					h.Set("Retry-After", strconv.Itoa(secs))
				}
				cfg.OnLimit(w, r, res)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
