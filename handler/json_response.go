package handler

import (
	"encoding/json"
	"net/http"
)

// JSONResponse is the envelope of every JSON body.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithStatus sets a custom HTTP status code.
func WithStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// JSON creates a JSON response wrapping v in the data envelope.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError creates a JSON error response from an HTTPError.
func JSONError(e HTTPError) Response {
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &jsonResponse{
		status: status,
		body: JSONResponse{Error: &ErrorDetail{
			Code:    e.Code,
			Message: e.Message,
			Details: e.Details,
		}},
	}
}

// Error returns a Response that fails rendering with err, handing it to
// the configured ErrorHandler.
func Error(err error) Response {
	return errorResponse{err: err}
}

type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// WriteError renders e as JSON. Middleware that runs outside Wrap uses it.
func WriteError(w http.ResponseWriter, r *http.Request, e HTTPError) {
	_ = JSONError(e).Render(w, r)
}
