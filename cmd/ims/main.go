package main

import (
	"fmt"
	"os"

	"github.com/raisama21/ims/pkg/config"
	"github.com/raisama21/ims/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var Version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "ims",
		Short:         "Multi-tenant inventory and order back office",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/ims.yml", "optional YAML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and installs the global logger
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.InitLogger(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.GetLogger()
	if cfg.UsesDefaultSecret() {
		log.Warn("COOKIE_SECRET is not set, sessions are signed with the built-in placeholder secret")
	}
	return cfg, log, nil
}
