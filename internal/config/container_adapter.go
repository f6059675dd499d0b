package config

import (
	"github.com/cabinet-medical/cabinet-console/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Driver:          c.Database.Driver,
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			SeedDemo:        c.Database.SeedDemo,
		},
		Authz: container.AuthzConfig{
			PolicyPath: c.Authz.PolicyPath,
		},
		Export: container.ExportConfig{
			ArchiveDir: c.Export.ArchiveDir,
		},
		Server: container.ServerConfig{
			Host:           c.Server.Host,
			Port:           c.Server.Port,
			ReadTimeout:    c.Server.ReadTimeout,
			WriteTimeout:   c.Server.WriteTimeout,
			UserHeader:     c.Auth.UserHeader,
			DefaultUser:    c.Auth.DefaultUser,
			AllowedOrigins: c.Security.AllowedOrigins,
			SSLRedirect:    c.Security.SSLRedirect,
			Development:    c.Security.Development,
		},
	}
}
