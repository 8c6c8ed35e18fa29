package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dayTracker/internal/logger"
	"dayTracker/internal/models/task"
	repo "dayTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const taskSelect = "tasks.*, categories.name AS category_name, categories.color AS category_color"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type TaskRepo struct {
	db *gorm.DB
}

// taskFilter applies the list conditions. SQLite LIKE folds ASCII case only.
func taskFilter(filter task.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.IsDone != nil {
			db = db.Where("tasks.is_done = ?", *filter.IsDone)
		}
		if filter.CategoryID != nil {
			db = db.Where("tasks.category_id = ?", *filter.CategoryID)
		}
		if filter.Search != "" {
			pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
			db = db.Where(`(tasks.title LIKE ? ESCAPE '\' OR tasks.description LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		return db
	}
}

func (r *TaskRepo) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&taskRecord{}).
		Select(taskSelect).
		Joins("JOIN categories ON categories.id = tasks.category_id")
}

func (r *TaskRepo) List(ctx context.Context, filter task.Filter) ([]*task.Task, int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&taskRecord{}).
		Scopes(taskFilter(filter)).
		Count(&total).Error
	if err != nil {
		logger.Error("Repository: Failed to count tasks", err)
		return nil, 0, fmt.Errorf("counting tasks: %w", err)
	}

	var records []taskRecord
	err = r.joined(ctx).
		Scopes(taskFilter(filter)).
		Order("tasks.is_done ASC").
		Order("COALESCE(tasks.updated_at_utc, tasks.created_at_utc) DESC").
		Order("tasks.id ASC").
		Limit(filter.PageSize).
		Offset(filter.Offset()).
		Find(&records).Error
	if err != nil {
		logger.Error("Repository: Failed to list tasks", err)
		return nil, 0, fmt.Errorf("listing tasks: %w", err)
	}

	tasks := make([]*task.Task, 0, len(records))
	for i := range records {
		tasks = append(tasks, records[i].toModel())
	}
	return tasks, int(total), nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var record taskRecord
	err := r.joined(ctx).Where("tasks.id = ?", id).Take(&record).Error
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, repo.ErrNotFound) {
			logger.Error("Repository: Failed to get task", err, zap.String("task_id", id.String()))
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return record.toModel(), nil
}

func (r *TaskRepo) Create(ctx context.Context, t *task.Task) error {
	if err := r.db.WithContext(ctx).Omit("Category").Create(newTaskRecord(t)).Error; err != nil {
		logger.Error("Repository: Failed to create task", err)
		return fmt.Errorf("creating task: %w", mapError(err))
	}
	return nil
}

func (r *TaskRepo) Update(ctx context.Context, t *task.Task) error {
	res := r.db.WithContext(ctx).
		Model(&taskRecord{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"title":          t.Title,
			"description":    t.Description,
			"is_done":        t.IsDone,
			"category_id":    t.CategoryID,
			"updated_at_utc": t.UpdatedAt,
		})
	if res.Error != nil {
		logger.Error("Repository: Failed to update task", res.Error)
		return fmt.Errorf("updating task: %w", mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&taskRecord{})
	if res.Error != nil {
		logger.Error("Repository: Failed to delete task", res.Error)
		return fmt.Errorf("deleting task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
