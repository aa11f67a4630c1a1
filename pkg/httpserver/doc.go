// Package httpserver runs an HTTP handler with graceful shutdown.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Run returns after the context is cancelled or SIGINT/SIGTERM arrives and
// in-flight requests have drained. HealthCheckHandler turns backend checks
// such as pg.Healthcheck into a readiness endpoint.
package httpserver
