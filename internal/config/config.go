package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix prefixes every environment override (CABINET_SERVER_PORT, ...)
const EnvPrefix = "CABINET"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Authz    AuthzConfig    `mapstructure:"authz"`
	Export   ExportConfig   `mapstructure:"export"`
	Security SecurityConfig `mapstructure:"security"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig selects and tunes the record store
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SeedDemo        bool          `mapstructure:"seed_demo"`
}

// AuthConfig describes how the console user is identified
type AuthConfig struct {
	UserHeader  string `mapstructure:"user_header"`
	DefaultUser string `mapstructure:"default_user"`
}

// AuthzConfig locates the RBAC policy
type AuthzConfig struct {
	PolicyPath string `mapstructure:"policy_path"`
}

// ExportConfig holds spreadsheet export settings
type ExportConfig struct {
	ArchiveDir string `mapstructure:"archive_dir"`
}

// SecurityConfig holds HTTP hardening settings
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	SSLRedirect    bool     `mapstructure:"ssl_redirect"`
	Development    bool     `mapstructure:"development"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Database drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Load reads configuration from an optional YAML file, the optional .env
// file and CABINET_* environment variables, in increasing precedence.
func Load(configPath, envFile string) (*Config, error) {
	if envFile != "" {
		if err := gotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.driver", DriverMemory)
	v.SetDefault("database.path", "data/cabinet.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.seed_demo", false)

	// Identity and authorization
	v.SetDefault("auth.user_header", "X-User-ID")
	v.SetDefault("auth.default_user", "")
	v.SetDefault("authz.policy_path", "")

	// Export archive, disabled when empty
	v.SetDefault("export.archive_dir", "")

	// Security defaults
	v.SetDefault("security.allowed_origins", []string{})
	v.SetDefault("security.ssl_redirect", false)
	v.SetDefault("security.development", false)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds the short aliases kept for deployment scripts
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("database.path", "CABINET_DB_PATH", "CABINET_DATABASE_PATH")
	_ = v.BindEnv("authz.policy_path", "CABINET_POLICY_PATH", "CABINET_AUTHZ_POLICY_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverMemory, DriverSQLite, c.Database.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Auth.UserHeader == "" {
		return fmt.Errorf("auth.user_header is required")
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console, got %q", c.Logger.Format)
	}

	return nil
}
