package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/metrics"
	"github.com/vyrodovalexey/avrouter/internal/middleware"
	"github.com/vyrodovalexey/avrouter/internal/observability"
	"github.com/vyrodovalexey/avrouter/internal/router"
)

// ginModeOnce ensures gin.SetMode is only called once to avoid race conditions
var ginModeOnce sync.Once

// Server hosts the compiled route table behind an HTTP listener.
type Server struct {
	engine       *gin.Engine
	httpServer   *http.Server
	table        atomic.Pointer[router.CompiledRoutes]
	handlers     *HandlerRegistry
	registry     *metrics.Registry
	middlewares  []middleware.Middleware
	errorHandler router.ErrorHandler
	logger       observability.Logger
	config       *Config
	mu           sync.RWMutex
	running      bool
}

// Config holds configuration for the HTTP server.
type Config struct {
	Address        string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Address:        "",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}
}

// ConfigFromListener maps the YAML listener section onto a server Config.
func ConfigFromListener(lc config.ListenerConfig) *Config {
	cfg := DefaultConfig()
	cfg.Address = lc.Address
	cfg.Port = lc.Port

	if lc.ReadTimeout.Duration() > 0 {
		cfg.ReadTimeout = lc.ReadTimeout.Duration()
	}
	if lc.WriteTimeout.Duration() > 0 {
		cfg.WriteTimeout = lc.WriteTimeout.Duration()
	}
	if lc.IdleTimeout.Duration() > 0 {
		cfg.IdleTimeout = lc.IdleTimeout.Duration()
	}
	if lc.MaxHeaderBytes > 0 {
		cfg.MaxHeaderBytes = lc.MaxHeaderBytes
	}

	return cfg
}

// Option configures optional server behavior.
type Option func(*Server)

// WithErrorHandler replaces the error handler attached to every
// dispatched request.
func WithErrorHandler(eh router.ErrorHandler) Option {
	return func(s *Server) {
		s.errorHandler = eh
	}
}

// WithMiddleware appends middleware around the whole listener.
// The first middleware is the outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, mws...)
	}
}

// NewServer creates a new HTTP server. The route table starts empty;
// call UpdateRoutes before or after Start to install one.
func NewServer(cfg *Config, handlers *HandlerRegistry, registry *metrics.Registry, logger observability.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	engine := gin.New()

	s := &Server{
		engine:   engine,
		handlers: handlers,
		registry: registry,
		logger:   logger,
		config:   cfg,
	}
	s.errorHandler = DefaultErrorHandler(logger)

	for _, opt := range opts {
		opt(s)
	}

	engine.NoRoute(func(c *gin.Context) {
		s.handleRequest(c)
	})

	return s
}

// DefaultErrorHandler logs the failure and answers with a generic
// 500 so handler errors never leak internals to the client.
func DefaultErrorHandler(logger observability.Logger) router.ErrorHandler {
	return func(req *router.Request, err error) *router.Response {
		logger.WithContext(req.Context()).Error("handler failed",
			observability.String("method", req.HTTP.Method),
			observability.String("path", req.HTTP.URL.Path),
			observability.Error(err),
		)

		return router.NewTextResponse(http.StatusInternalServerError, "Internal server error")
	}
}

// UpdateRoutes compiles the given configuration routes against the
// handler registry and swaps the new table in atomically. On error
// the previous table stays installed.
func (s *Server) UpdateRoutes(routes []config.Route) error {
	raw, err := s.handlers.BuildRouteMap(routes)
	if err != nil {
		return fmt.Errorf("failed to build route map: %w", err)
	}

	table, err := router.NewCompiledRoutes(raw, s.registry)
	if err != nil {
		return fmt.Errorf("failed to compile routes: %w", err)
	}

	s.table.Store(table)

	s.logger.Info("route table updated",
		observability.Int("routes", table.Len()),
	)

	return nil
}

// Routes returns the currently installed table, or nil before the
// first successful UpdateRoutes.
func (s *Server) Routes() *router.CompiledRoutes {
	return s.table.Load()
}

// Handler returns the complete listener handler: the gin engine with
// the dispatch catch-all, wrapped in the configured middleware chain.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(s.engine, s.middlewares...)
}

// handleRequest dispatches a single request through the route table.
func (s *Server) handleRequest(c *gin.Context) {
	table := s.table.Load()
	if table == nil {
		c.String(http.StatusServiceUnavailable, "Service unavailable")
		return
	}

	verb, err := router.ParseVerb(c.Request.Method)
	if err != nil {
		var verbErr *router.InvalidVerbError
		if errors.As(err, &verbErr) {
			c.String(http.StatusNotImplemented, "Method not implemented: %s", verbErr.Token)
			return
		}
		c.String(http.StatusNotImplemented, "Method not implemented")
		return
	}

	m := table.Match(c.Request.URL.Path, verb)

	req := &router.Request{
		HTTP:         c.Request,
		Params:       m.Groups,
		ErrorHandler: s.errorHandler,
	}

	resp, err := m.Handler.Handle(req)
	if err != nil || resp == nil {
		// Compiled handlers delegate failures to the error handler
		// and never surface them here. A nil response means the
		// error handler itself declined to answer.
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := resp.Write(c.Writer); err != nil {
		s.logger.WithContext(c.Request.Context()).Error("failed to write response",
			observability.Error(err),
		)
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)

	s.httpServer = &http.Server{
		Addr:           addr,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting HTTP server",
		observability.String("address", addr),
		observability.Duration("readTimeout", s.config.ReadTimeout),
		observability.Duration("writeTimeout", s.config.WriteTimeout),
	)

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop stops the HTTP server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("HTTP server stopped")

	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.running
}
