package handlers

import (
	"context"

	"dayTracker/internal/models"
	"dayTracker/internal/models/category"
	"dayTracker/internal/models/habit"
	"dayTracker/internal/models/task"
	"dayTracker/internal/service"

	"github.com/google/uuid"
)

type CategoryService interface {
	ListCategories(context.Context, *bool) (service.Result[[]*category.Category], error)
	GetCategory(context.Context, uuid.UUID) (service.Result[*category.Category], error)
	CreateCategory(context.Context, service.CategoryInput) (service.Result[*category.Category], error)
	UpdateCategory(context.Context, uuid.UUID, service.CategoryInput) (service.Result[*category.Category], error)
	DeleteCategory(context.Context, uuid.UUID) (service.Result[service.Empty], error)
	ReorderCategories(context.Context, []models.SortItem) (service.Result[service.Empty], error)
}

type TaskService interface {
	ListTasks(context.Context, task.Filter) (service.Result[service.PagedResult[*task.Task]], error)
	GetTask(context.Context, uuid.UUID) (service.Result[*task.Task], error)
	CreateTask(context.Context, service.TaskInput) (service.Result[*task.Task], error)
	UpdateTask(context.Context, uuid.UUID, ...task.TaskOption) (service.Result[*task.Task], error)
	ToggleTask(context.Context, uuid.UUID) (service.Result[*task.Task], error)
	DeleteTask(context.Context, uuid.UUID) (service.Result[service.Empty], error)
}

type HabitService interface {
	ListHabits(ctx context.Context, isActive *bool, weekStart *habit.Date) (service.Result[[]*habit.Habit], error)
	CreateHabit(context.Context, service.HabitInput) (service.Result[*habit.Habit], error)
	UpdateHabit(context.Context, uuid.UUID, service.HabitInput) (service.Result[*habit.Habit], error)
	DeleteHabit(context.Context, uuid.UUID) (service.Result[service.Empty], error)
	ReorderHabits(context.Context, []models.SortItem) (service.Result[service.Empty], error)
	UpsertEntry(context.Context, uuid.UUID, service.HabitEntryInput) (service.Result[*habit.Entry], error)
}

// HealthChecker is the storage backend as seen by the health endpoint.
type HealthChecker interface {
	HealthCheck(context.Context) error
}
