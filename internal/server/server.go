// Package server exposes the integrator over HTTP with gin.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/calclab/internal/cache"
	"github.com/san-kum/calclab/internal/config"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg    *config.Config
	cache  *cache.Cache
	logger *slog.Logger
	engine *gin.Engine
}

func New(cfg *config.Config, c *cache.Cache, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if c == nil {
		c = cache.New(cfg.CacheSize)
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, cache: c, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.accessLog())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/api/v1")
	v1.POST("/integrate", observe("integrate"), s.handleIntegrate)
	v1.POST("/riemann", observe("riemann"), s.handleRiemann)
	v1.POST("/visualize", observe("visualize"), s.handleVisualize)
	v1.GET("/examples", observe("examples"), s.handleExamples)
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

// Run serves on addr until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
