// Package binder decodes HTTP request data into Go structs.
//
// Binders share one signature, func(r *http.Request, v any) error, so they can
// be chained by the handler package. JSON decodes a strict, size-limited JSON
// body. Path copies router path parameters into fields tagged with `path`.
//
//	type ResetRequest struct {
//		Token    string `path:"token"`
//		Password string `json:"password"`
//	}
//
//	r.Post("/reset-password/{token}", handler.Wrap(h,
//		handler.WithBinders(binder.JSON(), binder.Path(chi.URLParam)),
//	))
//
// String values are never trimmed or rewritten. Passwords and tokens reach
// the handler exactly as sent.
package binder
