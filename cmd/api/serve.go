package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dayTracker/internal/app"
	"dayTracker/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	defer a.Close()

	if err := a.Init(ctx); err != nil {
		logger.Error("App: Initialisation failed", err)
		return err
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("App: Server failed", err, zap.String("addr", cfg.GetServerAddr()))
		return err
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
