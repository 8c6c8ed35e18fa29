package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dayTracker/internal/logger"
	"dayTracker/internal/models"
	repo "dayTracker/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

// psql builds dollar-placeholder statements for pgx.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Options struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

type Storage struct {
	pool       *pgxpool.Pool
	connString string
}

func New(ctx context.Context, connString string, opts Options) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Failed to parse connection string", err)
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Failed to create pool", err)
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: Connected to PostgreSQL",
		zap.Int32("max_conns", config.MaxConns),
		zap.Int32("min_conns", config.MinConns))
	return &Storage{pool: pool, connString: connString}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: PostgreSQL connections closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) Categories() *CategoryRepo {
	return &CategoryRepo{pool: s.pool}
}

func (s *Storage) Tasks() *TaskRepo {
	return &TaskRepo{pool: s.pool}
}

func (s *Storage) Habits() *HabitRepo {
	return &HabitRepo{pool: s.pool}
}

// mapError turns driver errors into repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503", "23505": // foreign_key_violation, unique_violation
			return fmt.Errorf("%w: %s", repo.ErrConflict, pgErr.ConstraintName)
		}
	}
	return err
}

func warnIfSlow(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: Slow query", zap.String("operation", op), zap.Duration("ms", elapsed))
	}
}

func utc(t time.Time) time.Time {
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// applySortOrders runs one UPDATE per item in a single batch and fails with
// ErrNotFound as soon as an id matches no row.
func applySortOrders(ctx context.Context, tx pgx.Tx, table string, items []models.SortItem, at time.Time) error {
	batch := &pgx.Batch{}
	query := fmt.Sprintf(`UPDATE %s SET sort_order = $1, updated_at_utc = $2 WHERE id = $3`, table)
	for _, item := range items {
		batch.Queue(query, item.SortOrder, at, item.ID)
	}

	results := tx.SendBatch(ctx, batch)
	for range items {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return err
		}
		if tag.RowsAffected() == 0 {
			results.Close()
			return repo.ErrNotFound
		}
	}
	return results.Close()
}
