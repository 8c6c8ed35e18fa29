package app

import (
	"context"
	"fmt"

	"dayTracker/internal/config"
	"dayTracker/internal/logger"
	"dayTracker/internal/repository/inmemory"
	"dayTracker/internal/repository/postgres"
	"dayTracker/internal/repository/sqlite"
	"dayTracker/internal/service"

	"go.uber.org/zap"
)

// Storage is the selected backend seen through the service repositories.
type Storage struct {
	Kind       string
	Categories service.CategoryRepository
	Tasks      service.TaskRepository
	Habits     service.HabitRepository

	healthCheck func(context.Context) error
	close       func()
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.healthCheck(ctx)
}

func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects the backend named by cfg.Repository.Type. Postgres
// migrations run when database.auto_migrate is set; the SQLite schema is
// always brought up to date on open.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Info("App: Opening storage", zap.String("type", cfg.Repository.Type))

	switch cfg.Repository.Type {
	case config.RepositoryPostgres:
		pg, err := postgres.New(ctx, cfg.Database.URL, postgres.Options{
			MaxConns:        int32(cfg.Database.MaxConnections),
			MinConns:        int32(cfg.Database.MinConnections),
			MaxConnIdleTime: cfg.Database.IdleTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := pg.Migrate(); err != nil {
				pg.Close()
				return nil, fmt.Errorf("migrating postgres: %w", err)
			}
		}
		return &Storage{
			Kind:        config.RepositoryPostgres,
			Categories:  pg.Categories(),
			Tasks:       pg.Tasks(),
			Habits:      pg.Habits(),
			healthCheck: pg.HealthCheck,
			close:       pg.Close,
		}, nil

	case config.RepositorySQLite:
		lite, err := sqlite.New(cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return &Storage{
			Kind:        config.RepositorySQLite,
			Categories:  lite.Categories(),
			Tasks:       lite.Tasks(),
			Habits:      lite.Habits(),
			healthCheck: lite.HealthCheck,
			close:       lite.Close,
		}, nil

	case config.RepositoryInMemory:
		mem := inmemory.New()
		return &Storage{
			Kind:        config.RepositoryInMemory,
			Categories:  mem.Categories(),
			Tasks:       mem.Tasks(),
			Habits:      mem.Habits(),
			healthCheck: mem.HealthCheck,
			close:       mem.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown repository type %q", cfg.Repository.Type)
	}
}
