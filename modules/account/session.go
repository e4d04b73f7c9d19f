package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/authservice/handler"
	"github.com/dmitrymomot/authservice/pkg/cookie"
	"github.com/dmitrymomot/authservice/pkg/jwt"
	"github.com/dmitrymomot/authservice/pkg/logger"
)

// SessionMiddleware admits requests carrying a valid session token, read
// from the session cookie first and the Authorization bearer header second.
// Rejections get a 401 JSON error.
func SessionMiddleware(sessions *jwt.Service, cookies *cookie.Manager, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Noop()
	}
	return jwt.Middleware(jwt.MiddlewareConfig{
		Service: sessions,
		Extractor: jwt.FirstOf(
			jwt.CookieTokenExtractor(cookies.Name()),
			jwt.BearerTokenExtractor,
		),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			msg := "Unauthorized - invalid token"
			if errors.Is(err, jwt.ErrTokenNotFound) {
				msg = "Unauthorized - no token provided"
			}
			log.DebugContext(r.Context(), "session rejected", logger.Error(err), logger.Component("account"))
			handler.WriteError(w, r, handler.ErrUnauthorized.WithMessage(msg))
		},
	})
}
