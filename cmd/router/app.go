package main

import (
	"net/http"

	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/health"
	"github.com/vyrodovalexey/avrouter/internal/metrics"
	"github.com/vyrodovalexey/avrouter/internal/middleware"
	"github.com/vyrodovalexey/avrouter/internal/observability"
	"github.com/vyrodovalexey/avrouter/internal/server"
)

// application holds all application components.
type application struct {
	server        *server.Server
	handlers      *server.HandlerRegistry
	registry      *metrics.Registry
	healthChecker *health.Checker
	metricsServer *http.Server
	rateLimiter   *middleware.RateLimiter
	config        *config.Config
	logger        observability.Logger
}

// initApplication wires the components together from the loaded
// configuration.
func initApplication(cfg *config.Config, logger observability.Logger) *application {
	registry := metrics.NewRegistry()

	handlers := server.NewHandlerRegistry()
	registerBuiltinHandlers(handlers)

	rateLimiter := newRateLimiter(cfg.Listener.RateLimit, logger)

	srv := server.NewServer(
		server.ConfigFromListener(cfg.Listener),
		handlers,
		registry,
		logger,
		server.WithMiddleware(listenerMiddleware(logger, rateLimiter)...),
	)

	if err := srv.UpdateRoutes(cfg.Routes); err != nil {
		fatalWithSync(logger, "failed to compile routes", observability.Error(err))
		return nil
	}

	healthChecker := health.NewChecker(version)
	healthChecker.RegisterCheck("routes", func() health.Check {
		return routesInstalledCheck(srv)
	})

	return &application{
		server:        srv,
		handlers:      handlers,
		registry:      registry,
		healthChecker: healthChecker,
		rateLimiter:   rateLimiter,
		config:        cfg,
		logger:        logger,
	}
}

// listenerMiddleware builds the middleware stack around the listener.
// Recovery is outermost so a panic anywhere in the chain still gets a
// response; the rate limiter, when configured, runs innermost so
// rejected requests are still identified and logged.
func listenerMiddleware(logger observability.Logger, rateLimiter *middleware.RateLimiter) []middleware.Middleware {
	mws := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.Logging(logger),
	}

	if rateLimiter != nil {
		mws = append(mws, rateLimiter.Middleware())
	}

	return mws
}

// newRateLimiter builds the listener rate limiter, or nil when
// disabled.
func newRateLimiter(cfg config.RateLimitConfig, logger observability.Logger) *middleware.RateLimiter {
	if !cfg.Enabled {
		return nil
	}

	return middleware.NewRateLimiter(cfg.RPS, cfg.Burst, cfg.PerClient,
		middleware.WithRateLimiterLogger(logger))
}

// routesInstalledCheck reports readiness only once a route table is
// installed.
func routesInstalledCheck(srv *server.Server) health.Check {
	if srv.Routes() == nil {
		return health.Check{Status: health.StatusUnhealthy, Message: errNoRoutes.Error()}
	}
	return health.Check{Status: health.StatusHealthy}
}
