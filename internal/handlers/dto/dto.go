package dto

import (
	"dayTracker/internal/models"
	"dayTracker/internal/models/habit"
	"dayTracker/internal/models/task"
	"dayTracker/internal/service"

	"github.com/google/uuid"
)

type CategoryRequest struct {
	Name        string  `json:"name" validate:"notblank,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,max=7,hexcolor"`
	Icon        *string `json:"icon" validate:"omitempty,max=50"`
	SortOrder   *int    `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

func (r CategoryRequest) Input() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Icon:        r.Icon,
		SortOrder:   r.SortOrder,
		IsActive:    r.IsActive,
	}
}

type ReorderCategoriesRequest struct {
	Categories []models.SortItem `json:"categories" validate:"dive"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"notblank,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	CategoryID  *uuid.UUID `json:"categoryId" validate:"required"`
}

func (r CreateTaskRequest) Input() service.TaskInput {
	in := service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.CategoryID != nil {
		in.CategoryID = *r.CategoryID
	}
	return in
}

type UpdateTaskRequest struct {
	Title       string     `json:"title" validate:"notblank,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	IsDone      *bool      `json:"isDone"`
	CategoryID  *uuid.UUID `json:"categoryId" validate:"required"`
}

// Options turns the request into task options; description is always
// overwritten, so an omitted one clears it.
func (r UpdateTaskRequest) Options() []task.TaskOption {
	opts := []task.TaskOption{
		task.WithTitle(r.Title),
		task.WithDescription(r.Description),
		task.WithDone(r.IsDone),
	}
	if r.CategoryID != nil {
		opts = append(opts, task.WithCategory(*r.CategoryID))
	}
	return opts
}

type HabitRequest struct {
	Name        string      `json:"name" validate:"notblank,max=200"`
	Description *string     `json:"description" validate:"omitempty,max=500"`
	Color       string      `json:"color" validate:"omitempty,max=7,hexcolor"`
	Icon        string      `json:"icon" validate:"omitempty,max=50"`
	Type        *habit.Type `json:"type"`
	Unit        *string     `json:"unit" validate:"omitempty,max=50"`
	TargetValue *int        `json:"targetValue" validate:"omitempty,gte=1"`
	IsActive    *bool       `json:"isActive"`
	SortOrder   *int        `json:"sortOrder"`
}

// Input defaults an omitted type to boolean.
func (r HabitRequest) Input() service.HabitInput {
	in := service.HabitInput{
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Icon:        r.Icon,
		Unit:        r.Unit,
		TargetValue: r.TargetValue,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
	if r.Type != nil {
		in.Type = *r.Type
	}
	return in
}

type ReorderHabitsRequest struct {
	Habits []models.SortItem `json:"habits" validate:"dive"`
}

type HabitEntryRequest struct {
	Date        *habit.Date `json:"date" validate:"required"`
	IsCompleted bool        `json:"isCompleted"`
	Value       *int        `json:"value" validate:"omitempty,gte=0"`
	Notes       *string     `json:"notes" validate:"omitempty,max=500"`
}

func (r HabitEntryRequest) Input() service.HabitEntryInput {
	in := service.HabitEntryInput{
		IsCompleted: r.IsCompleted,
		Value:       r.Value,
		Notes:       r.Notes,
	}
	if r.Date != nil {
		in.Date = *r.Date
	}
	return in
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
	MachineName string `json:"machineName"`
	ProcessID   int    `json:"processId"`
}

type PingResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
