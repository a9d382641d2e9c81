// Package http provides the HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/sdk/metric"

	appmetrics "github.com/allisson/cardpay/internal/metrics"
	paymentHTTP "github.com/allisson/cardpay/internal/payment/http"
	tokenHTTP "github.com/allisson/cardpay/internal/token/http"
)

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server. Call SetupRouter before Start to
// register the API routes.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterConfig carries the handlers and middleware settings for route setup.
type RouterConfig struct {
	TokenHandler   *tokenHTTP.TokenHandler
	PaymentHandler *paymentHTTP.PaymentHandler

	// MeterProvider enables HTTP metrics middleware when non-nil.
	MeterProvider    *metric.MeterProvider
	MetricsNamespace string

	CORSEnabled      bool
	CORSAllowOrigins string

	// Per-IP limits for the unauthenticated token issuance endpoints.
	TokenRateLimitEnabled bool
	TokenRateLimitRPS     float64
	TokenRateLimitBurst   int
}

// SetupRouter builds the Gin router with middleware and all API routes.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cfg.MeterProvider != nil {
		router.Use(appmetrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	tokens := v1.Group("/tokens")
	if cfg.TokenRateLimitEnabled {
		tokens.Use(tokenHTTP.IssueRateLimitMiddleware(
			cfg.TokenRateLimitRPS,
			cfg.TokenRateLimitBurst,
			s.logger,
		))
	}
	tokens.POST("/offline", cfg.TokenHandler.IssueOfflineHandler)
	tokens.POST("/online", cfg.TokenHandler.IssueOnlineHandler)
	tokens.POST("/qr", cfg.TokenHandler.IssueQRHandler)

	payments := v1.Group("/payments")
	payments.POST("", cfg.PaymentHandler.SubmitHandler)
	payments.GET("/notifications/:user_id", cfg.PaymentHandler.NotificationsHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can take traffic. The database
// is the only hard dependency; the issuer and report collaborators are
// checked per request.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else if err := s.db.PingContext(c.Request.Context()); err != nil {
		components["database"] = "error"
		ready = false
	} else {
		components["database"] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
