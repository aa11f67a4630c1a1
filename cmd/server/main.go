// Command server exposes the styles service over HTTP.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/templatestyles/pkg/clientip"
	"github.com/dmitrymomot/templatestyles/pkg/config"
	"github.com/dmitrymomot/templatestyles/pkg/httpserver"
	"github.com/dmitrymomot/templatestyles/pkg/logger"
	"github.com/dmitrymomot/templatestyles/pkg/ratelimiter"
	"github.com/dmitrymomot/templatestyles/pkg/requestid"
	"github.com/dmitrymomot/templatestyles/svc/styles"
)

func main() {
	var app config.App
	config.MustLoad(&app)

	log := logger.New(
		logger.WithEnvironment(app.Env, app.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), app, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, app config.App, log *slog.Logger) error {
	policy, err := config.LoadPolicy()
	if err != nil {
		return err
	}

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	var limitCfg ratelimiter.Config
	if err := config.Load(&limitCfg); err != nil {
		return err
	}
	var limiter *ratelimiter.Limiter
	if limitCfg.Enabled() {
		if limiter, err = ratelimiter.New(limitCfg); err != nil {
			return err
		}
	}

	backend, err := openBackend(ctx, app, log)
	if err != nil {
		return err
	}
	defer backend.close()

	svc := styles.New(backend.store, policy.Stylesheet(),
		styles.WithLogger(log),
		styles.WithScopeSelector(policy.ScopeSelector),
		styles.WithNamespaces(policy.Namespaces...),
		styles.WithMaxBodyBytes(app.MaxBodyBytes),
	)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, router(svc, backend, limiter, log))
}

// router mounts the service behind request tagging. A nil limiter leaves
// the API unthrottled; health checks are never throttled.
func router(svc *styles.Service, backend *backend, limiter *ratelimiter.Limiter, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware)

	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, backend.checks...))

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(ratelimiter.Middleware(limiter, func(r *http.Request) string {
				return clientip.FromContext(r.Context())
			}))
		}
		r.Mount("/", svc.Handle())
	})

	return r
}
