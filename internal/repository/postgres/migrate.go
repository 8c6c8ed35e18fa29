package postgres

import (
	"errors"
	"fmt"
	"strings"

	"dayTracker/internal/logger"
	"dayTracker/internal/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrate applies every pending up migration.
func (s *Storage) Migrate() error {
	return MigrateUp(s.connString)
}

func MigrateUp(connString string) error {
	m, err := newMigrator(connString)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Migration up failed", err)
		return fmt.Errorf("migrating up: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Repository: Schema is up to date",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// MigrateDown rolls back the given number of migrations, or all of them when
// steps is zero or negative.
func MigrateDown(connString string, steps int) error {
	m, err := newMigrator(connString)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Migration down failed", err)
		return fmt.Errorf("migrating down: %w", err)
	}

	logger.Info("Repository: Migrations rolled back", zap.Int("steps", steps))
	return nil
}

func newMigrator(connString string) (*migrate.Migrate, error) {
	dbURL, err := migrateURL(connString)
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("opening migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		logger.Error("Repository: Failed to create migrator", err)
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("Repository: Closing migration source", zap.Error(srcErr))
	}
	if dbErr != nil {
		logger.Warn("Repository: Closing migration database", zap.Error(dbErr))
	}
}

// migrateURL rewrites a postgres URL to the scheme registered by the pgx v5
// migrate driver.
func migrateURL(connString string) (string, error) {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(connString, scheme) {
			return "pgx5://" + strings.TrimPrefix(connString, scheme), nil
		}
	}
	if strings.HasPrefix(connString, "pgx5://") {
		return connString, nil
	}
	return "", fmt.Errorf("unsupported connection string for migrations: expected postgres:// URL")
}
