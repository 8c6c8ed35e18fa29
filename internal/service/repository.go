package service

import (
	"context"
	"time"

	"dayTracker/internal/models"
	"dayTracker/internal/models/category"
	"dayTracker/internal/models/habit"
	"dayTracker/internal/models/task"

	"github.com/google/uuid"
)

// Implementations return repository.ErrNotFound for unknown ids and
// repository.ErrConflict for constraint violations.

type CategoryRepository interface {
	List(context.Context, category.Filter) ([]*category.Category, error)
	GetByID(context.Context, uuid.UUID) (*category.Category, error)
	MaxActiveSortOrder(context.Context) (int, error)
	Create(context.Context, *category.Category) error
	Update(context.Context, *category.Category) error
	Delete(context.Context, uuid.UUID) error
	HasTasks(context.Context, uuid.UUID) (bool, error)
	// Reorder applies every item or none of them.
	Reorder(context.Context, []models.SortItem, time.Time) error
}

type TaskRepository interface {
	List(context.Context, task.Filter) ([]*task.Task, int, error)
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	Create(context.Context, *task.Task) error
	Update(context.Context, *task.Task) error
	Delete(context.Context, uuid.UUID) error
}

type HabitRepository interface {
	List(context.Context, habit.Filter) ([]*habit.Habit, error)
	GetByID(context.Context, uuid.UUID) (*habit.Habit, error)
	MaxActiveSortOrder(context.Context) (int, error)
	Create(context.Context, *habit.Habit) error
	// Update removes every entry of the habit in the same transaction when
	// clearEntries is set.
	Update(ctx context.Context, h *habit.Habit, clearEntries bool) error
	// Delete removes the habit together with its entries.
	Delete(context.Context, uuid.UUID) error
	Reorder(context.Context, []models.SortItem, time.Time) error
	// UpsertEntry inserts the entry or, when one exists for the same habit
	// and date, overwrites it and stamps UpdatedAt with entry.CreatedAt.
	// The stored row is written back into entry.
	UpsertEntry(context.Context, *habit.Entry) error
}
