package cmd

import (
	"fmt"
	"os"

	"kf2-manager/core/config"
	"kf2-manager/core/logger"
	"kf2-manager/feature/kf2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "kf2-manager",
	Short: "Killing Floor 2 dedicated server manager",
	Long: `kf2-manager keeps a Killing Floor 2 dedicated server in sync with an
approved workshop list: it maintains subscriptions, map summaries and map
cycles, cleans the workshop cache and restarts the server once a day.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps reads better in a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// env is the configuration and logger shared by every command.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	layout kf2.Layout
}

// loadEnv loads and validates configuration and builds the logger.
func loadEnv() (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &env{cfg: cfg, logger: l, layout: kf2.NewLayout(cfg.KF2)}, nil
}
