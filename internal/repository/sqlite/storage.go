// Package sqlite is the file-backed fallback used when no PostgreSQL URL is
// configured.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dayTracker/internal/logger"
	"dayTracker/internal/models"
	repo "dayTracker/internal/repository"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const DefaultPath = "data/daytracker.db"

type Storage struct {
	db *gorm.DB
}

// gormWriter routes gorm's own messages into the zap logger.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logger.Logger.Sugar().Warnf("Repository: "+format, args...)
}

func New(path string) (*Storage, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	dbLogger := gormlogger.New(gormWriter{}, gormlogger.Config{
		SlowThreshold:             100 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         dbLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		logger.Error("Repository: Failed to open SQLite database", err, zap.String("path", path))
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	// a single connection, so the foreign_keys pragma covers every statement
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := db.AutoMigrate(&categoryRecord{}, &taskRecord{}, &habitRecord{}, &habitEntryRecord{}); err != nil {
		_ = sqlDB.Close()
		logger.Error("Repository: SQLite migration failed", err)
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	logger.Info("Repository: Opened SQLite database", zap.String("path", path))
	return &Storage{db: db}, nil
}

func ensureDir(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Repository: Ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) Close() {
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Repository: Closing SQLite database", zap.Error(err))
		return
	}
	logger.Info("Repository: SQLite database closed")
}

func (s *Storage) Categories() *CategoryRepo {
	return &CategoryRepo{db: s.db}
}

func (s *Storage) Tasks() *TaskRepo {
	return &TaskRepo{db: s.db}
}

func (s *Storage) Habits() *HabitRepo {
	return &HabitRepo{db: s.db}
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repo.ErrConflict, err)
	default:
		return err
	}
}

// updateSortOrders is shared by the category and habit reorders; it must run
// inside a transaction.
func updateSortOrders(tx *gorm.DB, model interface{}, items []models.SortItem, at time.Time) error {
	for _, item := range items {
		res := tx.Model(model).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"sort_order":     item.SortOrder,
				"updated_at_utc": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
	}
	return nil
}
