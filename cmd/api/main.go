package main

import (
	"fmt"
	"os"

	"dayTracker/internal/config"
	"dayTracker/internal/logger"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dayTracker",
	Short: "Task and habit tracking API",
	Long: `dayTracker serves a JSON API for categorised to-do tasks and
daily habits with weekly entries.

Without a subcommand it starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yml", "Path to the yaml config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// setup loads the config and initialises the logger for every command.
func setup() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Development); err != nil {
		return nil, fmt.Errorf("initialising logger: %w", err)
	}
	return cfg, nil
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
