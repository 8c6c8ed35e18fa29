package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dayTracker/internal/logger"
	"dayTracker/internal/models"
	"dayTracker/internal/models/category"
	repo "dayTracker/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CategoryRepo struct {
	pool *pgxpool.Pool
}

var categoryColumns = []string{
	"c.id",
	"c.name",
	"c.description",
	"c.color",
	"c.icon",
	"c.sort_order",
	"c.is_active",
	"c.created_at_utc",
	"c.updated_at_utc",
	"(SELECT COUNT(*) FROM tasks t WHERE t.category_id = c.id) AS task_count",
}

func scanCategory(row pgx.Row) (*category.Category, error) {
	c := &category.Category{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Color,
		&c.Icon,
		&c.SortOrder,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.TaskCount,
	)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = utc(c.CreatedAt)
	c.UpdatedAt = utcPtr(c.UpdatedAt)
	return c, nil
}

func (r *CategoryRepo) List(ctx context.Context, filter category.Filter) ([]*category.Category, error) {
	start := time.Now()
	defer warnIfSlow("list_categories", start)

	query := psql.Select(categoryColumns...).
		From("categories c").
		OrderBy("c.sort_order ASC", "c.name ASC")
	if filter.IsActive != nil {
		query = query.Where(sq.Eq{"c.is_active": *filter.IsActive})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error("Repository: Failed to list categories", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	categories := []*category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Row iteration failed", err)
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	start := time.Now()
	defer warnIfSlow("get_category", start)

	sql, args, err := psql.Select(categoryColumns...).
		From("categories c").
		Where(sq.Expr("c.id = ?", id)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	c, err := scanCategory(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, repo.ErrNotFound) {
			logger.Error("Repository: Failed to get category", err, zap.String("category_id", id.String()))
		}
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepo) MaxActiveSortOrder(ctx context.Context) (int, error) {
	var maxOrder int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(sort_order), 0) FROM categories WHERE is_active = TRUE`,
	).Scan(&maxOrder)
	if err != nil {
		logger.Error("Repository: Failed to read max sort order", err)
		return 0, fmt.Errorf("max sort order: %w", err)
	}
	return maxOrder, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	start := time.Now()
	defer warnIfSlow("create_category", start)

	query := `INSERT INTO categories
				(id, name, description, color, icon, sort_order, is_active, created_at_utc)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Description,
		c.Color,
		c.Icon,
		c.SortOrder,
		c.IsActive,
		c.CreatedAt,
	)
	if err != nil {
		logger.Error("Repository: Failed to create category", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("creating category: %w", mapError(err))
	}
	return nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *category.Category) error {
	start := time.Now()
	defer warnIfSlow("update_category", start)

	query := `UPDATE categories
			SET name = $1,
				description = $2,
				color = $3,
				icon = $4,
				sort_order = $5,
				is_active = $6,
				updated_at_utc = $7
			WHERE id = $8`

	tag, err := r.pool.Exec(ctx, query,
		c.Name,
		c.Description,
		c.Color,
		c.Icon,
		c.SortOrder,
		c.IsActive,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		logger.Error("Repository: Failed to update category", err)
		return fmt.Errorf("updating category: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer warnIfSlow("delete_category", start)

	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		err = mapError(err)
		logger.Warn("Repository: Failed to delete category", zap.Error(err), zap.String("category_id", id.String()))
		return fmt.Errorf("deleting category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) HasTasks(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE category_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		logger.Error("Repository: Failed to check category tasks", err)
		return false, fmt.Errorf("checking tasks: %w", err)
	}
	return exists, nil
}

func (r *CategoryRepo) Reorder(ctx context.Context, items []models.SortItem, at time.Time) error {
	start := time.Now()
	defer warnIfSlow("reorder_categories", start)

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return applySortOrders(ctx, tx, "categories", items, at)
	})
	if err != nil {
		return fmt.Errorf("reordering categories: %w", err)
	}
	return nil
}
