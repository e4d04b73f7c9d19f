package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with an HTTP status, a stable machine-readable code
// and a client-facing message.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details map[string][]string
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// WithMessage returns a copy of e with the given message.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// WithDetails returns a copy of e with per-field details.
func (e HTTPError) WithDetails(details map[string][]string) HTTPError {
	e.Details = details
	return e
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(status int, code, message string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: message}
}

var (
	ErrBadRequest            = NewHTTPError(http.StatusBadRequest, "bad_request", "Bad request")
	ErrValidation            = NewHTTPError(http.StatusBadRequest, "validation_error", "Validation failed")
	ErrUnauthorized          = NewHTTPError(http.StatusUnauthorized, "unauthorized", "Unauthorized")
	ErrNotFound              = NewHTTPError(http.StatusNotFound, "not_found", "Not found")
	ErrConflict              = NewHTTPError(http.StatusConflict, "conflict", "Conflict")
	ErrRequestEntityTooLarge = NewHTTPError(http.StatusRequestEntityTooLarge, "request_entity_too_large", "Request body too large")
	ErrUnsupportedMediaType  = NewHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type", "Content-Type must be application/json")
	ErrTooManyRequests       = NewHTTPError(http.StatusTooManyRequests, "too_many_requests", "Too many requests")
	ErrInternalServerError   = NewHTTPError(http.StatusInternalServerError, "internal_server_error", "Internal server error")
	ErrServiceUnavailable    = NewHTTPError(http.StatusServiceUnavailable, "service_unavailable", "Service unavailable")
)
