package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrRequestTooLarge      = errors.New("request body too large")
	ErrFailedToParsePath    = errors.New("failed to parse path parameters")
	ErrInvalidTarget        = errors.New("binding target must be a non-nil pointer to struct")

	// ErrBinderNotApplicable is returned by a binder that has nothing to bind
	// for the request. Callers chaining binders skip it.
	ErrBinderNotApplicable = errors.New("binder not applicable")
)
