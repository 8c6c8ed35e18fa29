package main

import (
	"fmt"

	"dayTracker/internal/app"
	"dayTracker/internal/logger"
	"dayTracker/internal/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default categories and habits into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		storage, err := app.OpenStorage(ctx, cfg)
		if err != nil {
			return err
		}
		defer storage.Close()

		defaults, err := seed.Load()
		if err != nil {
			return err
		}

		applied, err := seed.Apply(ctx, defaults, storage.Categories, storage.Habits)
		if err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
		if !applied {
			logger.Info("Seed: Nothing to do, store is not empty")
		}
		return nil
	},
}
