// Package api exposes the gateway over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chiehlin/taifex-gateway/internal/audit"
	"github.com/chiehlin/taifex-gateway/internal/config"
	"github.com/chiehlin/taifex-gateway/internal/engine"
	"github.com/chiehlin/taifex-gateway/internal/metrics"
)

// Server is the HTTP front of the gateway.
type Server struct {
	cfg      config.ServerConfig
	engine   *engine.Engine
	store    audit.Store
	logger   *slog.Logger
	recorder *metrics.Recorder

	router *gin.Engine
	srv    *http.Server
	ready  atomic.Bool
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(cfg config.ServerConfig, eng *engine.Engine, store audit.Store, logger *slog.Logger, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		engine:   eng,
		store:    store,
		logger:   logger.With("component", "api"),
		recorder: recorder,
		router:   router,
	}
	s.registerRoutes()

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(s.corsMiddleware(), s.metricsMiddleware())

	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/live", s.handleLive)
	s.router.GET("/ready", s.handleReady)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/dashboard", s.handleDashboard)

	s.router.GET("/symbols", s.handleSymbols)
	s.router.GET("/symbols/:symbol", s.handleSymbolDetails)
	s.router.GET("/contracts", s.handleContracts)

	protected := s.router.Group("/", s.authMiddleware())
	{
		protected.GET("/positions", s.handlePositions)
		protected.POST("/order", s.handlePlaceOrder)
		protected.GET("/order/:id/status", s.handleOrderStatus)
		protected.GET("/orders", s.handleOrders)
		protected.GET("/orders/export", s.handleOrdersExport)
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// SetReady flips the readiness probe. The gateway reports ready only after
// the brokerage session is established.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Start serves HTTP until Shutdown. Blocks.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleLive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) handleReady(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
