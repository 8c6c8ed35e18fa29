package main

import (
	"errors"
	"fmt"

	"dayTracker/internal/app"
	"dayTracker/internal/config"
	"dayTracker/internal/repository/postgres"

	"github.com/spf13/cobra"
)

var downSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		switch cfg.Repository.Type {
		case config.RepositoryPostgres:
			return postgres.MigrateUp(cfg.Database.URL)
		case config.RepositorySQLite:
			// Opening the SQLite store migrates its schema.
			storage, err := app.OpenStorage(commandContext(cmd), cfg)
			if err != nil {
				return err
			}
			storage.Close()
			return nil
		default:
			return fmt.Errorf("repository type %q has no schema to migrate", cfg.Repository.Type)
		}
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (all of them unless --steps is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		if cfg.Repository.Type != config.RepositoryPostgres {
			return errors.New("migrate down is only supported for the postgres repository")
		}
		return postgres.MigrateDown(cfg.Database.URL, downSteps)
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "Number of migrations to roll back, 0 for all")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
