package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cabinet-medical/cabinet-console/internal/application/dispatcher"
	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/internal/application/service"
	"github.com/cabinet-medical/cabinet-console/internal/domain/event"
	"github.com/cabinet-medical/cabinet-console/internal/infrastructure/authz"
	"github.com/cabinet-medical/cabinet-console/internal/interfaces/http"
	"github.com/cabinet-medical/cabinet-console/internal/observability"
	"github.com/cabinet-medical/cabinet-console/pkg/database"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// It follows Clean Architecture principles with ordered initialization
// and reverse-order teardown.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	db           *database.DB
	txManager    port.TransactionManager
	repositories *RepositoryBundle

	// Infrastructure - Authorization and storage
	permissions *authz.Enforcer
	archive     port.FileStorage

	// Application
	metrics  *observability.Metrics
	events   dispatcher.Dispatcher
	services *ServiceBundle

	// Interfaces
	server *http.Server

	// Lifecycle
	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Supply  port.SupplyRepository
	Absence port.AbsenceRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Cabinet    service.CabinetService
	Navigation service.NavigationService
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Record store (and demo data when configured)
// 2. Permission enforcer and export archive
// 3. Metrics, event dispatcher and application services
// 4. HTTP server
// The HTTP server is built but not listening; callers run Server().Start.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization",
		zap.String("driver", c.config.Database.Driver))

	// Step 1: Initialize the record store
	if err := c.initStore(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	c.logger.Info("Store initialized")

	// Step 2: Initialize authorization and archive
	if err := c.initInfrastructure(); err != nil {
		c.closeStore()
		return fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	c.logger.Info("Permissions initialized", zap.Bool("archive", c.archive != nil))

	// Step 3: Initialize events and application services
	c.metrics = observability.NewMetrics()
	c.events = ProvideDispatcher(c.metrics, c.logger)
	services, err := ProvideServices(&ServiceDeps{
		Repos:       c.repositories,
		TxManager:   c.txManager,
		Permissions: c.permissions,
		Roles:       c.permissions,
		Archive:     c.archive,
		Events:      c.events,
		Logger:      c.logger,
	})
	if err != nil {
		c.closeStore()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.services = services
	c.logger.Info("Application services initialized")

	// Step 4: Initialize the HTTP server
	if err := c.initServer(); err != nil {
		c.closeStore()
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	// Step 1: Stop HTTP server (reverse of step 4)
	if c.server != nil {
		if err := c.server.Stop(); err != nil {
			c.logger.Error("Failed to stop HTTP server", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop server: %w", err))
		}
	}

	// Step 2: Close dispatcher (reverse of step 3)
	if c.events != nil {
		if err := c.events.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
	}

	// Step 3: Close database (reverse of step 1)
	if err := c.closeStore(); err != nil {
		errs = append(errs, err)
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	// Check store
	switch {
	case c.repositories == nil:
		status.Components["store"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	case c.db == nil:
		status.Components["store"] = ComponentHealth{Healthy: true, Message: DriverMemory}
	default:
		if err := c.db.Ping(); err != nil {
			status.Components["store"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["store"] = ComponentHealth{Healthy: true, Message: DriverSQLite}
		}
	}

	// Check permissions
	if c.permissions != nil {
		status.Components["permissions"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["permissions"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	// Check dispatcher
	if c.events != nil {
		status.Components["events"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("handlers per event: %d", len(c.events.ListHandlers(event.TypeSupplyAdded))),
		}
	} else {
		status.Components["events"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	// Check services
	if c.services != nil {
		status.Components["services"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["services"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	return status
}

func (c *Container) initStore(ctx context.Context) error {
	bundle, err := ProvideStore(&c.config.Database, c.logger)
	if err != nil {
		return err
	}

	c.db = bundle.DB
	c.txManager = bundle.TxManager
	c.repositories = bundle.Repositories

	if c.config.Database.SeedDemo {
		if err := SeedDemo(ctx, c.repositories, c.logger); err != nil {
			c.closeStore()
			return err
		}
	}
	return nil
}

func (c *Container) initInfrastructure() error {
	enforcer, err := ProvidePermissions(&c.config.Authz, c.logger)
	if err != nil {
		return err
	}
	c.permissions = enforcer
	c.archive = ProvideArchive(&c.config.Export, c.logger)
	return nil
}

func (c *Container) initServer() error {
	cfg := c.config.Server
	server, err := http.NewServer(http.ServerConfig{
		Host:           cfg.Host,
		Port:           cfg.Port,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		UserHeader:     cfg.UserHeader,
		DefaultUser:    cfg.DefaultUser,
		AllowedOrigins: cfg.AllowedOrigins,
		SSLRedirect:    cfg.SSLRedirect,
		Development:    cfg.Development,
	}, c.services.Cabinet, c.services.Navigation, c.metrics, &zapLoggerAdapter{logger: c.logger})
	if err != nil {
		return err
	}
	c.server = server
	return nil
}

func (c *Container) closeStore() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		c.logger.Error("Failed to close database", zap.Error(err))
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// ReloadPermissions re-reads the authorization policy of a started container.
func (c *Container) ReloadPermissions(ctx context.Context) error {
	if !c.ready.Load() || c.permissions == nil {
		return fmt.Errorf("container not started")
	}
	return c.permissions.ReloadPolicy(ctx)
}

// Getters for accessing container components

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Permissions returns the RBAC enforcer.
func (c *Container) Permissions() *authz.Enforcer {
	return c.permissions
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Server returns the HTTP server.
func (c *Container) Server() *http.Server {
	return c.server
}

// Events returns the event dispatcher.
func (c *Container) Events() dispatcher.Dispatcher {
	return c.events
}

// Metrics returns the Prometheus collectors.
func (c *Container) Metrics() *observability.Metrics {
	return c.metrics
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Info(msg, fields...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Error(msg, fields...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
