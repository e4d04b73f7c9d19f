// Package httpserver runs an http.Handler with graceful shutdown and
// provides liveness and readiness handlers.
//
// Run opens the listener, logs the bound address and serves until the
// context is cancelled, SIGINT or SIGTERM arrives, or Shutdown is called.
// Shutdown waits up to the configured timeout for in-flight requests and
// then runs stop hooks, which is where storage clients get closed.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func() { _ = mongoClient.Disconnect(context.Background()) }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Listen failures are wrapped with ErrStart and shutdown failures with
// ErrShutdown.
package httpserver
