package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dayTracker/internal/logger"
	"dayTracker/internal/models"
	"dayTracker/internal/models/category"
	repo "dayTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const categorySelect = "categories.*, " +
	"(SELECT COUNT(*) FROM tasks WHERE tasks.category_id = categories.id) AS task_count"

type CategoryRepo struct {
	db *gorm.DB
}

func (r *CategoryRepo) List(ctx context.Context, filter category.Filter) ([]*category.Category, error) {
	query := r.db.WithContext(ctx).
		Model(&categoryRecord{}).
		Select(categorySelect).
		Order("sort_order ASC").
		Order("name ASC")
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var records []categoryRecord
	if err := query.Find(&records).Error; err != nil {
		logger.Error("Repository: Failed to list categories", err)
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	categories := make([]*category.Category, 0, len(records))
	for i := range records {
		categories = append(categories, records[i].toModel())
	}
	return categories, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	var record categoryRecord
	err := r.db.WithContext(ctx).
		Model(&categoryRecord{}).
		Select(categorySelect).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, repo.ErrNotFound) {
			logger.Error("Repository: Failed to get category", err, zap.String("category_id", id.String()))
		}
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return record.toModel(), nil
}

func (r *CategoryRepo) MaxActiveSortOrder(ctx context.Context) (int, error) {
	var maxOrder int
	err := r.db.WithContext(ctx).
		Model(&categoryRecord{}).
		Where("is_active = ?", true).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&maxOrder).Error
	if err != nil {
		logger.Error("Repository: Failed to read max sort order", err)
		return 0, fmt.Errorf("max sort order: %w", err)
	}
	return maxOrder, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	if err := r.db.WithContext(ctx).Create(newCategoryRecord(c)).Error; err != nil {
		logger.Error("Repository: Failed to create category", err)
		return fmt.Errorf("creating category: %w", mapError(err))
	}
	return nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *category.Category) error {
	res := r.db.WithContext(ctx).
		Model(&categoryRecord{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":           c.Name,
			"description":    c.Description,
			"color":          c.Color,
			"icon":           c.Icon,
			"sort_order":     c.SortOrder,
			"is_active":      c.IsActive,
			"updated_at_utc": c.UpdatedAt,
		})
	if res.Error != nil {
		logger.Error("Repository: Failed to update category", res.Error)
		return fmt.Errorf("updating category: %w", mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&categoryRecord{})
	if res.Error != nil {
		err := mapError(res.Error)
		logger.Warn("Repository: Failed to delete category", zap.Error(err), zap.String("category_id", id.String()))
		return fmt.Errorf("deleting category: %w", err)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) HasTasks(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&taskRecord{}).
		Where("category_id = ?", id).
		Count(&count).Error
	if err != nil {
		logger.Error("Repository: Failed to check category tasks", err)
		return false, fmt.Errorf("checking tasks: %w", err)
	}
	return count > 0, nil
}

func (r *CategoryRepo) Reorder(ctx context.Context, items []models.SortItem, at time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateSortOrders(tx, &categoryRecord{}, items, at)
	})
	if err != nil {
		return fmt.Errorf("reordering categories: %w", err)
	}
	return nil
}
