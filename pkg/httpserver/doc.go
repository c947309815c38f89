// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts, lifecycle hooks and health-check handlers.
//
// Run blocks until the context is cancelled, then shuts the server down with
// http.Server.Shutdown bounded by the shutdown timeout. Request contexts
// derive from a base context that is cancelled as soon as shutdown begins, so
// streaming handlers (server-sent events) return promptly.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Get("/health/live", httpserver.LivenessHandler())
//	r.Get("/health/ready", httpserver.ReadinessHandler(log, redis.Healthcheck(client)))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// # Errors
//
// Run wraps listen and serve errors with ErrStart, Shutdown wraps shutdown
// errors with ErrShutdown. Use errors.Is to distinguish them.
package httpserver
