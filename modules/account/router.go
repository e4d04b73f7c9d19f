package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authservice/handler"
	"github.com/dmitrymomot/authservice/pkg/binder"
	"github.com/dmitrymomot/authservice/pkg/clientip"
	"github.com/dmitrymomot/authservice/pkg/cookie"
	"github.com/dmitrymomot/authservice/pkg/jwt"
	"github.com/dmitrymomot/authservice/pkg/logger"
	"github.com/dmitrymomot/authservice/pkg/ratelimiter"
)

// RouterConfig holds the HTTP collaborators of Router.
type RouterConfig struct {
	Sessions *jwt.Service
	Cookies  *cookie.Manager
	// Limiter throttles the unauthenticated endpoints per client IP.
	// Nil disables rate limiting.
	Limiter *ratelimiter.Bucket
	Logger  *slog.Logger
}

// ErrorMapper maps account errors to HTTP errors. Use it with
// handler.NewErrorHandler.
func ErrorMapper(err error) (handler.HTTPError, bool) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		return handler.ErrConflict.WithMessage("User already exists"), true
	case errors.Is(err, ErrInvalidCredentials):
		return handler.ErrUnauthorized.WithMessage("Invalid credentials"), true
	case errors.Is(err, ErrInvalidOrExpiredToken):
		return handler.NewHTTPError(http.StatusBadRequest, "invalid_or_expired_token", "Invalid or expired token"), true
	case errors.Is(err, ErrUserNotFound):
		return handler.ErrNotFound.WithMessage("User not found"), true
	}
	return handler.HTTPError{}, false
}

type routes struct {
	svc     *Service
	cookies *cookie.Manager
}

type messageResponse struct {
	Message string   `json:"message"`
	User    *Profile `json:"user,omitempty"`
}

// Router returns the account API:
//
//	POST /signup
//	POST /verify-email
//	POST /login
//	POST /logout
//	POST /forgot-password
//	POST /reset-password/{token}
//	GET  /check-auth
func Router(svc *Service, cfg RouterConfig) chi.Router {
	if svc == nil || cfg.Sessions == nil || cfg.Cookies == nil {
		panic("account: router requires a service, a session issuer and a cookie manager")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Noop()
	}

	rt := &routes{svc: svc, cookies: cfg.Cookies}
	errHandler := handler.NewErrorHandler(log, ErrorMapper)

	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(ratelimiter.Middleware(ratelimiter.MiddlewareConfig{
				Limiter: cfg.Limiter,
				Key:     ratelimiter.Composite(ratelimiter.Static("auth"), clientip.GetIP),
				OnLimit: func(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result) {
					handler.WriteError(w, r, handler.ErrTooManyRequests.WithMessage("Too many requests, please try again later"))
				},
				OnError: func(w http.ResponseWriter, r *http.Request, err error) {
					log.ErrorContext(r.Context(), "rate limiter unavailable", logger.Error(err), logger.Component("account"))
					handler.WriteError(w, r, handler.ErrServiceUnavailable)
				},
			}))
		}

		r.Post("/signup", handler.Wrap(rt.signup,
			handler.WithBinders[SignupInput](binder.JSON()),
			handler.WithErrorHandler[SignupInput](errHandler),
		))
		r.Post("/verify-email", handler.Wrap(rt.verifyEmail,
			handler.WithBinders[VerifyEmailInput](binder.JSON()),
			handler.WithErrorHandler[VerifyEmailInput](errHandler),
		))
		r.Post("/login", handler.Wrap(rt.login,
			handler.WithBinders[LoginInput](binder.JSON()),
			handler.WithErrorHandler[LoginInput](errHandler),
		))
		r.Post("/forgot-password", handler.Wrap(rt.forgotPassword,
			handler.WithBinders[ForgotPasswordInput](binder.JSON()),
			handler.WithErrorHandler[ForgotPasswordInput](errHandler),
		))
		r.Post("/reset-password/{token}", handler.Wrap(rt.resetPassword,
			handler.WithBinders[ResetPasswordInput](binder.JSON(), binder.Path(chi.URLParam)),
			handler.WithErrorHandler[ResetPasswordInput](errHandler),
		))
	})

	r.Post("/logout", handler.Wrap(rt.logout,
		handler.WithErrorHandler[struct{}](errHandler),
	))

	r.With(SessionMiddleware(cfg.Sessions, cfg.Cookies, log)).Get("/check-auth", handler.Wrap(rt.checkAuth,
		handler.WithErrorHandler[struct{}](errHandler),
	))

	return r
}

func (rt *routes) signup(ctx handler.Context, req SignupInput) handler.Response {
	session, err := rt.svc.Signup(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	rt.cookies.Set(ctx.ResponseWriter(), session.Token, session.ExpiresAt)
	return handler.JSON(messageResponse{
		Message: "User created successfully",
		User:    &session.Profile,
	}, handler.WithStatus(http.StatusCreated))
}

func (rt *routes) verifyEmail(ctx handler.Context, req VerifyEmailInput) handler.Response {
	profile, err := rt.svc.VerifyEmail(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(messageResponse{Message: "Email verified successfully", User: profile})
}

func (rt *routes) login(ctx handler.Context, req LoginInput) handler.Response {
	session, err := rt.svc.Login(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	rt.cookies.Set(ctx.ResponseWriter(), session.Token, session.ExpiresAt)
	return handler.JSON(messageResponse{Message: "Logged in successfully", User: &session.Profile})
}

func (rt *routes) logout(ctx handler.Context, _ struct{}) handler.Response {
	rt.cookies.Delete(ctx.ResponseWriter())
	return handler.JSON(messageResponse{Message: "Logged out successfully"})
}

func (rt *routes) forgotPassword(ctx handler.Context, req ForgotPasswordInput) handler.Response {
	if err := rt.svc.ForgotPassword(ctx, req); err != nil {
		return handler.Error(err)
	}
	return handler.JSON(messageResponse{Message: "Password reset link sent to your email"})
}

func (rt *routes) resetPassword(ctx handler.Context, req ResetPasswordInput) handler.Response {
	if err := rt.svc.ResetPassword(ctx, req); err != nil {
		return handler.Error(err)
	}
	return handler.JSON(messageResponse{Message: "Password reset successful"})
}

func (rt *routes) checkAuth(ctx handler.Context, _ struct{}) handler.Response {
	profile, err := rt.svc.CheckAuth(ctx, jwt.UserIDFromContext(ctx))
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(messageResponse{Message: "Authenticated", User: profile})
}
