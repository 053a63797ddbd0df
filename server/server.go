package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apperrors "github.com/kbukum/lazyseq/errors"
	"github.com/kbukum/lazyseq/logger"
	"github.com/kbukum/lazyseq/observability"
	"github.com/kbukum/lazyseq/sequence"
	"github.com/kbukum/lazyseq/server/endpoint"
	"github.com/kbukum/lazyseq/server/middleware"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP playground.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	log        *logger.Logger
	listener   net.Listener
}

// New builds the server with its routes and middleware. Call
// cfg.ApplyDefaults first; a zero port binds an ephemeral one. log is used
// as given, typically logger.Get("server"). metrics may be nil.
func New(cfg Config, log *logger.Logger, metrics *observability.StageMetrics) *Server {
	if log == nil {
		log = logger.NewNop()
	}

	if gin.Mode() != gin.TestMode {
		if zerolog.GlobalLevel() <= zerolog.DebugLevel {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}

	var rec sequence.Recorder
	if metrics != nil {
		rec = metrics
	}

	engine := gin.New()
	engine.GET("/health", endpoint.Health())
	engine.GET("/version", endpoint.Version())
	v1 := engine.Group("/v1")
	v1.POST("/evaluate", endpoint.Evaluate(log, rec, cfg.EvaluateTimeout))
	engine.NoRoute(func(c *gin.Context) {
		endpoint.RespondWithError(c, apperrors.NotFound("route "+c.Request.URL.Path))
	})

	wrapped := middleware.Chain(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.BodySizeLimit(cfg.MaxBodyBytes),
	)(engine)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          cfg.IdleTimeout,
	}
	handler := h2c.NewHandler(wrapped, h2s)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		handler: handler,
		log:     log,
	}
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the port and serves in a goroutine. It returns once the
// listener is bound.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts the server down, waiting at most shutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
