package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxJSONSize is the default maximum size for JSON request bodies (64KB).
const DefaultMaxJSONSize int64 = 64 << 10

// JSONOption configures the JSON binder.
type JSONOption func(*jsonConfig)

type jsonConfig struct {
	maxSize      int64
	allowUnknown bool
	allowEmpty   bool
}

// WithMaxSize overrides the body size limit.
func WithMaxSize(n int64) JSONOption {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithUnknownFields disables strict decoding.
func WithUnknownFields() JSONOption {
	return func(c *jsonConfig) {
		c.allowUnknown = true
	}
}

// WithEmptyBody makes the binder return ErrBinderNotApplicable for requests
// without a body instead of failing.
func WithEmptyBody() JSONOption {
	return func(c *jsonConfig) {
		c.allowEmpty = true
	}
}

// JSON creates a JSON binder function.
func JSON(opts ...JSONOption) func(r *http.Request, v any) error {
	cfg := jsonConfig{maxSize: DefaultMaxJSONSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(r *http.Request, v any) error {
		if cfg.allowEmpty && (r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0) {
			return ErrBinderNotApplicable
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != "application/json" {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, contentType)
		}
		if r.Body == nil {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxSize+1))
		if err != nil {
			return errors.Join(ErrFailedToParseJSON, err)
		}
		if int64(len(body)) > cfg.maxSize {
			return fmt.Errorf("%w: max %d bytes", ErrRequestTooLarge, cfg.maxSize)
		}
		if len(body) == 0 {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}

		dec := json.NewDecoder(bytes.NewReader(body))
		if !cfg.allowUnknown {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(v); err != nil {
			return errors.Join(ErrFailedToParseJSON, err)
		}

		var extra json.RawMessage
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
		}

		return nil
	}
}
