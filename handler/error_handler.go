package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/authservice/pkg/binder"
	"github.com/dmitrymomot/authservice/pkg/logger"
	"github.com/dmitrymomot/authservice/pkg/validator"
)

// ErrorMapper translates a domain error into an HTTPError.
// It reports false for errors it does not recognise.
type ErrorMapper func(err error) (HTTPError, bool)

// ResolveError maps err to an HTTPError. Mappers are consulted after
// HTTPError, validation and binder errors; anything unrecognised
// becomes ErrInternalServerError.
func ResolveError(err error, mappers ...ErrorMapper) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ErrValidation.WithMessage(verrs.Error()).WithDetails(verrs.Fields())
	}

	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return ErrUnsupportedMediaType
	case errors.Is(err, binder.ErrRequestTooLarge):
		return ErrRequestEntityTooLarge
	case errors.Is(err, binder.ErrFailedToParseJSON):
		return ErrBadRequest.WithMessage("Malformed JSON request body")
	case errors.Is(err, binder.ErrFailedToParsePath), errors.Is(err, binder.ErrInvalidTarget):
		return ErrBadRequest
	}

	for _, m := range mappers {
		if m == nil {
			continue
		}
		if mapped, ok := m(err); ok {
			return mapped
		}
	}

	return ErrInternalServerError
}

// NewErrorHandler returns an ErrorHandler that renders errors as JSON
// and logs them. Server errors are logged at error level with the cause;
// client errors at debug level.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler {
	if log == nil {
		log = logger.Noop()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		httpErr := ResolveError(err, mappers...)

		level := slog.LevelDebug
		if httpErr.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(r.Context(), level, "request failed",
			logger.Error(err),
			slog.Int("status", httpErr.Status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("handler"),
		)

		if renderErr := JSONError(httpErr).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(renderErr))
		}
	}
}
