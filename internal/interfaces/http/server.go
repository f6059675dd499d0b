// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cabinet-medical/cabinet-console/internal/application/service"
	"github.com/cabinet-medical/cabinet-console/internal/observability"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// UserHeader carries the authenticated user id set by the upstream proxy
	UserHeader string
	// DefaultUser is used when the header is absent; empty means anonymous
	DefaultUser string

	AllowedOrigins []string
	SSLRedirect    bool
	Development    bool
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		UserHeader:   "X-User-ID",
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	cabinet    service.CabinetService
	navigation service.NavigationService
	metrics    *observability.Metrics
	pages      *template.Template
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	cabinet service.CabinetService,
	navigation service.NavigationService,
	metrics *observability.Metrics,
	logger Logger,
) (*Server, error) {
	if config.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.UserHeader == "" {
		config.UserHeader = DefaultServerConfig().UserHeader
	}

	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	server := &Server{
		config:     config,
		router:     gin.New(),
		cabinet:    cabinet,
		navigation: navigation,
		metrics:    metrics,
		pages:      pages,
		logger:     logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server, nil
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.securityMiddleware())
	s.router.Use(s.corsMiddleware())
	s.router.Use(s.metrics.GinMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.identityMiddleware())
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.cabinet, s.navigation, s.metrics, s.logger)
	pages := NewPages(s.pages, s.cabinet, s.navigation, s.metrics, s.logger)

	s.router.GET("/health", handlers.HealthCheck)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.router.Group("/api/v1")
	{
		api.GET("/navigation", handlers.Navigation)

		cab := api.Group("/cabinet", s.requirePermission(permViewSupplies))
		{
			cab.GET("/supplies", handlers.ListSupplies)
			cab.POST("/supplies", handlers.CreateSupply)
			cab.GET("/absences", handlers.ListAbsences)
			cab.POST("/absences", handlers.CreateAbsence)
			cab.PATCH("/absences/:id/status", handlers.UpdateAbsenceStatus)
		}
		api.POST("/cabinet/export", s.requirePermission(permExportData), handlers.Export)
	}

	s.router.GET("/", s.requirePagePermission(permViewDashboard), pages.Dashboard)
	cabinetPages := s.router.Group("/cabinet", s.requirePagePermission(permViewSupplies))
	{
		cabinetPages.GET("", pages.Cabinet)
		cabinetPages.POST("/supplies", pages.CreateSupply)
		cabinetPages.POST("/absences", pages.CreateAbsence)
		cabinetPages.POST("/absences/:id/status", pages.UpdateAbsenceStatus)
	}
	s.router.POST("/cabinet/export", s.requirePagePermission(permExportData), pages.Export)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
