package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authservice/pkg/binder"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func newJSONRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes body without rewriting strings", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		err := binder.JSON()(newJSONRequest(`{"email":"ann@x.com","password":"  pw  "}`), &req)
		require.NoError(t, err)
		assert.Equal(t, "ann@x.com", req.Email)
		assert.Equal(t, "  pw  ", req.Password)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		err := binder.JSON()(newJSONRequest(`{"email":"a@b.c","admin":true}`), &req)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("allows unknown fields when configured", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		err := binder.JSON(binder.WithUnknownFields())(newJSONRequest(`{"email":"a@b.c","admin":true}`), &req)
		require.NoError(t, err)
		assert.Equal(t, "a@b.c", req.Email)
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		err := binder.JSON()(newJSONRequest(`{"email":"a@b.c"}{"x":1}`), &req)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		err := binder.JSON()(req, &loginRequest{})
		assert.ErrorIs(t, err, binder.ErrMissingContentType)
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`a=b`))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		err := binder.JSON()(req, &loginRequest{})
		assert.ErrorIs(t, err, binder.ErrUnsupportedMediaType)
	})

	t.Run("body over limit", func(t *testing.T) {
		t.Parallel()

		body := `{"email":"` + strings.Repeat("a", 200) + `"}`
		err := binder.JSON(binder.WithMaxSize(64))(newJSONRequest(body), &loginRequest{})
		assert.ErrorIs(t, err, binder.ErrRequestTooLarge)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		err := binder.JSON()(newJSONRequest(""), &loginRequest{})
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)

		err = binder.JSON(binder.WithEmptyBody())(newJSONRequest(""), &loginRequest{})
		assert.ErrorIs(t, err, binder.ErrBinderNotApplicable)
	})
}

type resetRequest struct {
	Token    string `path:"token"`
	Page     int    `path:"page"`
	Password string `json:"password"`
	Ignored  string `path:"-"`
}

func TestPath(t *testing.T) {
	t.Parallel()

	t.Run("binds chi url params", func(t *testing.T) {
		t.Parallel()

		var got resetRequest
		var bindErr error
		r := chi.NewRouter()
		r.Post("/reset/{token}/{page}", func(w http.ResponseWriter, req *http.Request) {
			bindErr = binder.Path(chi.URLParam)(req, &got)
		})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/reset/abc123/2", nil))

		require.NoError(t, bindErr)
		assert.Equal(t, "abc123", got.Token)
		assert.Equal(t, 2, got.Page)
		assert.Empty(t, got.Ignored)
	})

	t.Run("invalid integer", func(t *testing.T) {
		t.Parallel()

		extract := func(_ *http.Request, name string) string {
			if name == "page" {
				return "two"
			}
			return ""
		}
		err := binder.Path(extract)(httptest.NewRequest(http.MethodGet, "/", nil), &resetRequest{})
		assert.ErrorIs(t, err, binder.ErrFailedToParsePath)
	})

	t.Run("nothing to bind", func(t *testing.T) {
		t.Parallel()

		extract := func(*http.Request, string) string { return "" }
		err := binder.Path(extract)(httptest.NewRequest(http.MethodGet, "/", nil), &resetRequest{})
		assert.ErrorIs(t, err, binder.ErrBinderNotApplicable)
	})

	t.Run("invalid target", func(t *testing.T) {
		t.Parallel()

		extract := func(*http.Request, string) string { return "x" }
		var s string
		err := binder.Path(extract)(httptest.NewRequest(http.MethodGet, "/", nil), &s)
		assert.ErrorIs(t, err, binder.ErrInvalidTarget)

		err = binder.Path(nil)(httptest.NewRequest(http.MethodGet, "/", nil), &resetRequest{})
		assert.ErrorIs(t, err, binder.ErrFailedToParsePath)
	})
}
