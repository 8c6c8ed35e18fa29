package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dayTracker/internal/logger"
	"dayTracker/internal/models/category"
	"dayTracker/internal/models/task"
	rep "dayTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MsgTaskCreated = "Task created successfully"
	MsgTaskUpdated = "Task updated successfully"
	MsgTaskToggled = "Task status toggled successfully"
)

type TaskInput struct {
	Title       string
	Description *string
	CategoryID  uuid.UUID
}

type TaskService struct {
	repo       TaskRepository
	categories CategoryRepository
	opts       options
}

func NewTaskService(repo TaskRepository, categories CategoryRepository, opts ...Option) *TaskService {
	return &TaskService{
		repo:       repo,
		categories: categories,
		opts:       applyOptions(opts),
	}
}

func (s *TaskService) ListTasks(ctx context.Context, filter task.Filter) (Result[PagedResult[*task.Task]], error) {
	filter = filter.Normalize()
	filter.Search = strings.TrimSpace(filter.Search)

	tasks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return Result[PagedResult[*task.Task]]{}, fmt.Errorf("listing tasks: %w", err)
	}

	return Ok(NewPagedResult(tasks, total, filter.Page, filter.PageSize), ""), nil
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (Result[*task.Task], error) {
	t, err := s.getTask(ctx, id)
	if err != nil {
		return Result[*task.Task]{}, err
	}
	return Ok(t, ""), nil
}

func (s *TaskService) CreateTask(ctx context.Context, in TaskInput) (Result[*task.Task], error) {
	c, err := s.targetCategory(ctx, in.CategoryID)
	if err != nil {
		return Result[*task.Task]{}, err
	}

	t := &task.Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(in.Title),
		Description: optionalString(in.Description),
		IsDone:      false,
		CategoryID:  c.ID,
		CreatedAt:   s.opts.stamp(),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, rep.ErrConflict) {
			return Result[*task.Task]{}, NewBadRequest(CodeCategoryNotFound, MsgCategoryNotFound)
		}
		return Result[*task.Task]{}, fmt.Errorf("creating task: %w", err)
	}
	withCategory(t, c)

	logger.Info("Service: Task created",
		zap.String("task_id", t.ID.String()),
		zap.String("category_id", c.ID.String()))

	return Created(t, MsgTaskCreated), nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (Result[*task.Task], error) {
	t, err := s.getTask(ctx, id)
	if err != nil {
		return Result[*task.Task]{}, err
	}

	t.Apply(options...)
	t.Title = strings.TrimSpace(t.Title)
	t.Description = optionalString(t.Description)

	c, err := s.targetCategory(ctx, t.CategoryID)
	if err != nil {
		return Result[*task.Task]{}, err
	}

	t.UpdatedAt = s.opts.touch(t.UpdatedAt)
	if err := s.save(ctx, t); err != nil {
		return Result[*task.Task]{}, err
	}
	withCategory(t, c)

	return Ok(t, MsgTaskUpdated), nil
}

func (s *TaskService) ToggleTask(ctx context.Context, id uuid.UUID) (Result[*task.Task], error) {
	t, err := s.getTask(ctx, id)
	if err != nil {
		return Result[*task.Task]{}, err
	}

	t.IsDone = !t.IsDone
	t.UpdatedAt = s.opts.touch(t.UpdatedAt)

	if err := s.save(ctx, t); err != nil {
		return Result[*task.Task]{}, err
	}

	logger.Info("Service: Task toggled",
		zap.String("task_id", t.ID.String()),
		zap.Bool("is_done", t.IsDone))

	return Ok(t, MsgTaskToggled), nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) (Result[Empty], error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Task not found", zap.String("target_id", id.String()))
			return Result[Empty]{}, NewNotFound(CodeTaskNotFound, MsgTaskNotFound)
		}
		return Result[Empty]{}, fmt.Errorf("deleting task: %w", err)
	}
	return NoContent(), nil
}

func (s *TaskService) save(ctx context.Context, t *task.Task) error {
	if err := s.repo.Update(ctx, t); err != nil {
		switch {
		case errors.Is(err, rep.ErrNotFound):
			return NewNotFound(CodeTaskNotFound, MsgTaskNotFound)
		case errors.Is(err, rep.ErrConflict):
			return NewBadRequest(CodeCategoryNotFound, MsgCategoryNotFound)
		}
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (s *TaskService) getTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Task not found", zap.String("target_id", id.String()))
			return nil, NewNotFound(CodeTaskNotFound, MsgTaskNotFound)
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// targetCategory resolves the category a task points to; a missing one is a 400.
func (s *TaskService) targetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Target category not found", zap.String("category_id", id.String()))
			return nil, NewBadRequest(CodeCategoryNotFound, MsgCategoryNotFound)
		}
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

func withCategory(t *task.Task, c *category.Category) {
	t.CategoryName = c.Name
	t.CategoryColor = c.Color
}
