package handler

import (
	"context"
	"net/http"
)

// Context is what a HandlerFunc receives: the request's context plus the
// request and response writer, so handlers can pass it straight to the
// service layer.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
}

// NewContext wraps w and r. Deadlines, cancellation and values come from
// r.Context() as it was when the context was created.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return requestContext{Context: r.Context(), w: w, r: r}
}

type requestContext struct {
	context.Context
	w http.ResponseWriter
	r *http.Request
}

func (c requestContext) Request() *http.Request              { return c.r }
func (c requestContext) ResponseWriter() http.ResponseWriter { return c.w }
