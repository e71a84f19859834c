// Package http serves the analysis API of the bundled demo backend: the two
// analyze endpoints the engine talks to, plus health and metrics.  It exists
// so the TUI can be tried end to end without a separately deployed service.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arraylab/beamtune/internal/config"
	"github.com/arraylab/beamtune/internal/logging"
	"github.com/arraylab/beamtune/internal/metrics"
	"github.com/arraylab/beamtune/pkg/client"
)

// Server is the demo analysis backend.
type Server struct {
	srv    *http.Server
	router *gin.Engine
	logger logging.Logger
}

// NewServer builds the demo backend from its config.  A nil metrics argument
// disables the middleware and the /metrics endpoint.
func NewServer(cfg config.DemoConfig, logger logging.Logger, m *metrics.ServerMetrics) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	gin.SetMode(cfg.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	if m != nil {
		router.Use(m.Middleware())
	}

	h := newAnalyzeHandler(logger)
	router.POST(client.PathLinearAnalyze, h.Linear)
	router.POST(client.PathPlanarAnalyze, h.Planar)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	return &Server{
		router: router,
		logger: logger.Named("demo"),
		srv: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("demo backend listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("demo backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
