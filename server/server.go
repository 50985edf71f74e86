package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/dirge/di"
	"github.com/kbukum/dirge/logger"
	"github.com/kbukum/dirge/server/endpoint"
	"github.com/kbukum/dirge/server/middleware"
)

// Server is an HTTP server backed by gin. Gin is mounted as the fallback
// handler of a root ServeMux, which is served over h2c so HTTP/2 works
// without TLS.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	h2s        *http2.Server
	config     Config
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server. No middleware is applied yet; call ApplyMiddleware
// or ApplyDefaults before Start.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          cfg.IdleTimeout,
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      h2c.NewHandler(mux, h2s),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		engine: engine,
		mux:    mux,
		h2s:    h2s,
		config: cfg,
		log:    log.WithComponent("server"),
	}
}

// GinEngine returns the underlying gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the root handler including the middleware stack.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Handle mounts an http.Handler at pattern on the root ServeMux, next to gin.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", logger.Fields("pattern", pattern))
}

// Use wraps the root handler with the given middleware. The first
// middleware is the outermost.
func (s *Server) Use(mws ...middleware.Middleware) {
	s.httpServer.Handler = h2c.NewHandler(middleware.Chain(mws...)(s.mux), s.h2s)
}

// ApplyMiddleware installs the standard stack around every route:
// recovery, request id, CORS, body size limit and request logging.
func (s *Server) ApplyMiddleware() {
	s.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.config.CORS),
		middleware.BodySizeLimit(s.config.MaxBodySize),
		middleware.RequestLogger(s.log),
	)
}

// RegisterDefaultEndpoints registers /health, /ready, /info and, when
// registry is not nil, /dependencies.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker, registry *di.Registry) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/ready", endpoint.Readiness(serviceName, checker))
	s.engine.GET("/info", endpoint.Info(serviceName))
	if registry != nil {
		s.engine.GET("/dependencies", endpoint.Dependencies(registry))
	}
}

// ApplyDefaults applies the middleware stack and registers default endpoints.
func (s *Server) ApplyDefaults(serviceName string, checker endpoint.HealthChecker, registry *di.Registry) {
	s.ApplyMiddleware()
	s.RegisterDefaultEndpoints(serviceName, checker, registry)
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("Starting HTTP server", logger.Fields("addr", s.httpServer.Addr))

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server within the configured stop timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	timeout := s.config.StopTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)

	s.mu.Lock()
	s.listener = nil
	s.mu.Unlock()

	if err != nil {
		s.log.Error("Server shutdown error", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Addr returns the bound address while serving, otherwise the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Serving reports whether the listener is bound.
func (s *Server) Serving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener != nil
}
