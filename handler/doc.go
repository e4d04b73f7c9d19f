// Package handler provides type-safe JSON HTTP handlers.
//
// A HandlerFunc receives a Context and a request value already populated by
// binders, and returns a Response. Wrap adapts it to http.HandlerFunc:
//
//	type LoginRequest struct {
//		Email    string `json:"email"`
//		Password string `json:"password"`
//	}
//
//	r.Post("/login", handler.Wrap(login,
//		handler.WithBinders[LoginRequest](binder.JSON()),
//		handler.WithErrorHandler[LoginRequest](errHandler),
//	))
//
// Every body uses one envelope. Success bodies carry "data"; failures carry
// "error" with a code, a message and optional per-field details:
//
//	{"error":{"code":"validation_error","message":"...","details":{"email":["..."]}}}
//
// Errors returned by binders, by handlers through Error, or by rendering go
// to the ErrorHandler. NewErrorHandler resolves them with ResolveError:
// HTTPError values pass through, validator.ValidationErrors become 400
// validation_error, binder failures become 400, 413 or 415, and everything
// else is offered to the supplied ErrorMapper functions before falling back
// to 500. Server errors are logged with their cause; clients only ever see
// the generic message.
package handler
