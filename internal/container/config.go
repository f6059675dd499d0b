// Package container provides dependency injection and lifecycle management
// for the cabinet console following Clean Architecture principles.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Authorization policy configuration
	Authz AuthzConfig

	// Export archive configuration
	Export ExportConfig

	// Server configuration
	Server ServerConfig
}

// DatabaseConfig selects the record store.
type DatabaseConfig struct {
	// Driver is "memory" or "sqlite"
	Driver string

	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// SeedDemo loads the sample supplies and absences into an empty store
	SeedDemo bool
}

// AuthzConfig holds RBAC settings.
type AuthzConfig struct {
	// PolicyPath overrides the embedded policy when set
	PolicyPath string
}

// ExportConfig holds spreadsheet export settings.
type ExportConfig struct {
	// ArchiveDir keeps a copy of every export; empty disables archiving
	ArchiveDir string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	UserHeader     string
	DefaultUser    string
	AllowedOrigins []string
	SSLRedirect    bool
	Development    bool
}

// Store drivers understood by ProvideStore.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          DriverMemory,
			Path:            "data/cabinet.db",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			UserHeader:   "X-User-ID",
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port is required")
	}

	return nil
}
