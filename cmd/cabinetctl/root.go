package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cabinet-medical/cabinet-console/internal/config"
	"github.com/cabinet-medical/cabinet-console/internal/container"
	"github.com/cabinet-medical/cabinet-console/pkg/utils"
)

type rootOptions struct {
	configPath string
	envFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "cabinetctl",
		Short:         "Medical cabinet console tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file (defaults and CABINET_* env when empty)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env", ".env", "Optional dotenv file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(newMenuCmd(opts))
	cmd.AddCommand(newSuppliesCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	return cmd
}

// openContainer loads configuration and starts the dependency container.
// The HTTP server is built but never listens.
func openContainer(ctx context.Context, opts *rootOptions) (*container.Container, error) {
	cfg, err := config.Load(opts.configPath, opts.envFile)
	if err != nil {
		return nil, err
	}

	logger, err := utils.NewCLILogger(opts.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Container ready", zap.String("driver", cfg.Database.Driver))
	return c, nil
}
