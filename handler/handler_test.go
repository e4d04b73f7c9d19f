package handler_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authservice/handler"
	"github.com/dmitrymomot/authservice/pkg/binder"
	"github.com/dmitrymomot/authservice/pkg/validator"
)

type greetRequest struct {
	Name string `json:"name"`
}

type resetRequest struct {
	Token    string `path:"token"`
	Password string `json:"password"`
}

var errQuota = errors.New("quota exhausted")

func decode(t *testing.T, rec *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var body handler.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestWrap(t *testing.T) {
	t.Parallel()

	greet := func(ctx handler.Context, req greetRequest) handler.Response {
		switch req.Name {
		case "":
			return handler.Error(validator.ValidationErrors{{Field: "name", Message: "Name is required"}})
		case "quota":
			return handler.Error(fmt.Errorf("greet: %w", errQuota))
		case "boom":
			return handler.Error(errors.New("database down"))
		case "nil":
			return nil
		}
		return handler.JSON(map[string]string{"greeting": "hi " + req.Name}, handler.WithStatus(http.StatusCreated))
	}

	mapper := func(err error) (handler.HTTPError, bool) {
		if errors.Is(err, errQuota) {
			return handler.ErrTooManyRequests, true
		}
		return handler.HTTPError{}, false
	}

	h := handler.Wrap(greet,
		handler.WithBinders[greetRequest](binder.JSON()),
		handler.WithErrorHandler[greetRequest](handler.NewErrorHandler(nil, mapper)),
	)

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h(rec, postJSON("/", `{"name":"ann"}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		body := decode(t, rec)
		assert.Nil(t, body.Error)
		assert.Equal(t, map[string]any{"greeting": "hi ann"}, body.Data)
	})

	t.Run("validation error", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h(rec, postJSON("/", `{"name":""}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		require.NotNil(t, body.Error)
		assert.Equal(t, "validation_error", body.Error.Code)
		assert.Equal(t, []string{"Name is required"}, body.Error.Details["name"])
	})

	t.Run("mapped domain error", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h(rec, postJSON("/", `{"name":"quota"}`))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "too_many_requests", decode(t, rec).Error.Code)
	})

	t.Run("unknown error hides cause", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h(rec, postJSON("/", `{"name":"boom"}`))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "internal_server_error", body.Error.Code)
		assert.NotContains(t, rec.Body.String(), "database down")
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h(rec, postJSON("/", `{"name":"nil"}`))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h(rec, postJSON("/", `{"name":`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "bad_request", decode(t, rec).Error.Code)
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`name=ann`))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestWrapPathAndJSONBinders(t *testing.T) {
	t.Parallel()

	var got resetRequest
	reset := func(_ handler.Context, req resetRequest) handler.Response {
		got = req
		return handler.JSON(map[string]string{"message": "ok"})
	}

	r := chi.NewRouter()
	r.Post("/reset/{token}", handler.Wrap(reset,
		handler.WithBinders[resetRequest](binder.JSON(), binder.Path(chi.URLParam)),
	))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, postJSON("/reset/abc", `{"password":"secret1"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", got.Token)
	assert.Equal(t, "secret1", got.Password)
}

func TestWrapDecorators(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) handler.Decorator[greetRequest] {
		return func(next handler.HandlerFunc[greetRequest]) handler.HandlerFunc[greetRequest] {
			return func(ctx handler.Context, req greetRequest) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(func(handler.Context, greetRequest) handler.Response {
		order = append(order, "handler")
		return handler.JSON(nil)
	}, handler.WithDecorators(mark("outer"), mark("inner")))

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestResolveError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, handler.ErrConflict, handler.ResolveError(fmt.Errorf("wrap: %w", handler.ErrConflict)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, handler.ResolveError(binder.ErrRequestTooLarge).Status)
	assert.Equal(t, http.StatusUnsupportedMediaType, handler.ResolveError(binder.ErrMissingContentType).Status)
	assert.Equal(t, handler.ErrInternalServerError, handler.ResolveError(errors.New("x"), nil))
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handler.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), handler.ErrUnauthorized)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "unauthorized", body.Error.Code)
	assert.Equal(t, "Unauthorized", body.Error.Message)
}
