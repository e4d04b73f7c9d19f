package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authservice/pkg/httpserver"
)

func startServer(t *testing.T, opts ...httpserver.Option) (*httpserver.Server, net.Addr, context.CancelFunc, <-chan error) {
	t.Helper()

	started := make(chan net.Addr, 1)
	opts = append([]httpserver.Option{
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(100 * time.Millisecond),
		httpserver.WithStartHook(func(a net.Addr) { started <- a }),
	}, opts...)
	srv := httpserver.New(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
	}()

	select {
	case addr := <-started:
		return srv, addr, cancel, done
	case err := <-done:
		cancel()
		require.FailNow(t, "server did not start", "%v", err)
	case <-time.After(2 * time.Second):
		cancel()
		require.FailNow(t, "server did not start in time")
	}
	return nil, nil, cancel, done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not finish")
	}
}

func TestRunServesAndStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	var stopped atomic.Bool
	srv, addr, cancel, done := startServer(t, httpserver.WithStopHook(func() { stopped.Store(true) }))
	assert.Equal(t, addr.String(), srv.Addr().String())

	resp, err := http.Get("http://" + addr.String())
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	waitDone(t, done)
	assert.True(t, stopped.Load(), "stop hook not executed")
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestManualShutdownIsIdempotent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv, _, cancel, done := startServer(t, httpserver.WithStopHook(func() { calls.Add(1) }))
	defer cancel()

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunTwice(t *testing.T) {
	t.Parallel()

	srv, _, cancel, done := startServer(t)
	err := srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
	assert.ErrorIs(t, err, httpserver.ErrAlreadyRunning)

	cancel()
	waitDone(t, done)
}

func TestStartError(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr(":invalid"))
	err := srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
	assert.Nil(t, srv.Addr())
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	srv := httpserver.NewFromConfig(httpserver.Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, nil) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, 2*time.Second, 10*time.Millisecond)
	cancel()
	waitDone(t, done)
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"addr", func() { httpserver.WithAddr("") }},
		{"read header", func() { httpserver.WithReadHeaderTimeout(0) }},
		{"read", func() { httpserver.WithReadTimeout(-time.Second) }},
		{"write", func() { httpserver.WithWriteTimeout(-time.Second) }},
		{"idle", func() { httpserver.WithIdleTimeout(-time.Second) }},
		{"shutdown", func() { httpserver.WithShutdownTimeout(-time.Second) }},
		{"start hook", func() { httpserver.WithStartHook(nil) }},
		{"stop hook", func() { httpserver.WithStopHook(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Panics(t, tt.fn)
		})
	}
}

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpserver.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all checks pass", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h := httpserver.ReadinessHandler(nil, time.Second, map[string]httpserver.Check{"mongo": ok, "redis": ok})
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"mongo":"ok","redis":"ok"}}`, rec.Body.String())
	})

	t.Run("failing check", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h := httpserver.ReadinessHandler(nil, time.Second, map[string]httpserver.Check{"mongo": ok, "redis": down})
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unavailable", body["status"])
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("check honours timeout", func(t *testing.T) {
		t.Parallel()

		slow := func(ctx context.Context) error {
			<-ctx.Done()
			return fmt.Errorf("slow: %w", ctx.Err())
		}
		rec := httptest.NewRecorder()
		h := httpserver.ReadinessHandler(nil, 20*time.Millisecond, map[string]httpserver.Check{"db": slow})
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
