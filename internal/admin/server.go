// Package admin exposes the optional HTTP status surface of one example
// process: health, liveness counters, peer count and prometheus metrics.
package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/pulsectl/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Status is the read-only process view served at /status.
type Status struct {
	App            string  `json:"app"`
	Role           string  `json:"role"`
	RemainingPings uint    `json:"remaining_pings"`
	RemainingPongs uint    `json:"remaining_pongs"`
	Peers          int     `json:"peers"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// StatusSource snapshots current process state for one request.
type StatusSource func() Status

// Server hosts the admin endpoints for one example process.
type Server struct {
	addr   string
	engine *gin.Engine
}

func NewServer(app, addr string, source StatusSource, logger zerolog.Logger, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(observability.RequestLogger(logger))
	engine.Use(observability.RequestMetricsMiddleware(app))
	if len(corsOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = corsOrigins
		engine.Use(cors.New(corsCfg))
	}
	registerRoutes(engine, source)
	return &Server{addr: addr, engine: engine}
}

func registerRoutes(engine *gin.Engine, source StatusSource) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, source())
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Engine exposes the router for in-process tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	}
}
