package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dayTracker/internal/logger"
	"dayTracker/internal/models"
	"dayTracker/internal/models/habit"
	rep "dayTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MsgHabitCreated             = "Habit created successfully"
	MsgHabitUpdated             = "Habit updated successfully"
	MsgHabitUpdatedEntriesReset = "Habit updated successfully. Existing entries were cleared due to type change."
	MsgHabitsReordered          = "Habits reordered successfully"
	MsgHabitEntryUpdated        = "Habit entry updated successfully"
)

type HabitInput struct {
	Name        string
	Description *string
	Color       string
	Icon        string
	Type        habit.Type
	Unit        *string
	TargetValue *int
	IsActive    *bool
	// SortOrder is only read on create.
	SortOrder *int
}

type HabitEntryInput struct {
	Date        habit.Date
	IsCompleted bool
	Value       *int
	Notes       *string
}

type HabitService struct {
	repo HabitRepository
	opts options
}

func NewHabitService(repo HabitRepository, opts ...Option) *HabitService {
	return &HabitService{
		repo: repo,
		opts: applyOptions(opts),
	}
}

// ListHabits returns the habits with their entries of the week starting at
// weekStart, or of the current week when weekStart is nil.
func (s *HabitService) ListHabits(ctx context.Context, isActive *bool, weekStart *habit.Date) (Result[[]*habit.Habit], error) {
	filter := habit.Filter{IsActive: isActive}
	if weekStart != nil && !weekStart.IsZero() {
		filter.WeekStart = *weekStart
	} else {
		filter.WeekStart = habit.WeekStart(s.opts.now())
	}

	habits, err := s.repo.List(ctx, filter)
	if err != nil {
		return Result[[]*habit.Habit]{}, fmt.Errorf("listing habits: %w", err)
	}

	for _, h := range habits {
		if h.Entries == nil {
			h.Entries = []*habit.Entry{}
		}
	}

	return Ok(habits, ""), nil
}

func (s *HabitService) CreateHabit(ctx context.Context, in HabitInput) (Result[*habit.Habit], error) {
	sortOrder := 0
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	}
	if sortOrder <= 0 {
		maxOrder, err := s.repo.MaxActiveSortOrder(ctx)
		if err != nil {
			return Result[*habit.Habit]{}, fmt.Errorf("computing sort order: %w", err)
		}
		sortOrder = nextSortOrder(maxOrder)
	}

	h := &habit.Habit{
		ID:        uuid.New(),
		IsActive:  true,
		SortOrder: sortOrder,
		CreatedAt: s.opts.stamp(),
	}
	applyHabitInput(h, in)

	if err := s.repo.Create(ctx, h); err != nil {
		return Result[*habit.Habit]{}, fmt.Errorf("creating habit: %w", err)
	}
	h.Entries = []*habit.Entry{}

	logger.Info("Service: Habit created",
		zap.String("habit_id", h.ID.String()),
		zap.String("type", h.Type.String()))

	return Created(h, MsgHabitCreated), nil
}

func (s *HabitService) UpdateHabit(ctx context.Context, id uuid.UUID, in HabitInput) (Result[*habit.Habit], error) {
	h, err := s.getHabit(ctx, id)
	if err != nil {
		return Result[*habit.Habit]{}, err
	}

	typeChanged := h.Type != in.Type
	applyHabitInput(h, in)
	h.UpdatedAt = s.opts.touch(h.UpdatedAt)

	if err := s.repo.Update(ctx, h, typeChanged); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return Result[*habit.Habit]{}, NewNotFound(CodeHabitNotFound, MsgHabitNotFound)
		}
		return Result[*habit.Habit]{}, fmt.Errorf("updating habit: %w", err)
	}
	h.Entries = []*habit.Entry{}

	if typeChanged {
		logger.Info("Service: Habit type changed, entries cleared",
			zap.String("habit_id", h.ID.String()),
			zap.String("type", h.Type.String()))
		return Ok(h, MsgHabitUpdatedEntriesReset), nil
	}

	return Ok(h, MsgHabitUpdated), nil
}

func (s *HabitService) DeleteHabit(ctx context.Context, id uuid.UUID) (Result[Empty], error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Habit not found", zap.String("target_id", id.String()))
			return Result[Empty]{}, NewNotFound(CodeHabitNotFound, MsgHabitNotFound)
		}
		return Result[Empty]{}, fmt.Errorf("deleting habit: %w", err)
	}
	return NoContent(), nil
}

func (s *HabitService) ReorderHabits(ctx context.Context, items []models.SortItem) (Result[Empty], error) {
	if len(items) == 0 {
		return Result[Empty]{}, NewBadRequest(CodeEmptyHabitsList, MsgEmptyHabitsList)
	}
	if hasDuplicateIDs(items) {
		return Result[Empty]{}, NewBadRequest(CodeHabitsNotFound, MsgHabitsNotFound)
	}

	if err := s.repo.Reorder(ctx, items, s.opts.stamp()); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Reorder references unknown habits", zap.Int("items", len(items)))
			return Result[Empty]{}, NewBadRequest(CodeHabitsNotFound, MsgHabitsNotFound)
		}
		return Result[Empty]{}, fmt.Errorf("reordering habits: %w", err)
	}

	return Ok(Empty{}, MsgHabitsReordered), nil
}

// UpsertEntry records the outcome of one day. There is never more than one
// entry per habit and date.
func (s *HabitService) UpsertEntry(ctx context.Context, habitID uuid.UUID, in HabitEntryInput) (Result[*habit.Entry], error) {
	h, err := s.getHabit(ctx, habitID)
	if err != nil {
		return Result[*habit.Entry]{}, err
	}

	entry := &habit.Entry{
		ID:          uuid.New(),
		HabitID:     h.ID,
		Date:        in.Date,
		IsCompleted: in.IsCompleted,
		Value:       in.Value,
		Notes:       optionalString(in.Notes),
		CreatedAt:   s.opts.stamp(),
	}
	if h.Type == habit.TypeBoolean {
		entry.Value = nil
	}

	if err := s.repo.UpsertEntry(ctx, entry); err != nil {
		if errors.Is(err, rep.ErrNotFound) || errors.Is(err, rep.ErrConflict) {
			return Result[*habit.Entry]{}, NewNotFound(CodeHabitNotFound, MsgHabitNotFound)
		}
		return Result[*habit.Entry]{}, fmt.Errorf("saving habit entry: %w", err)
	}

	return Ok(entry, MsgHabitEntryUpdated), nil
}

func (s *HabitService) getHabit(ctx context.Context, id uuid.UUID) (*habit.Habit, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Habit not found", zap.String("target_id", id.String()))
			return nil, NewNotFound(CodeHabitNotFound, MsgHabitNotFound)
		}
		return nil, fmt.Errorf("getting habit: %w", err)
	}
	return h, nil
}

func applyHabitInput(h *habit.Habit, in HabitInput) {
	h.Name = strings.TrimSpace(in.Name)
	h.Description = optionalString(in.Description)
	h.Color = strings.TrimSpace(in.Color)
	if h.Color == "" {
		h.Color = habit.DefaultColor
	}
	h.Icon = strings.TrimSpace(in.Icon)
	if h.Icon == "" {
		h.Icon = habit.DefaultIcon
	}
	h.Type = in.Type
	h.Unit = optionalString(in.Unit)
	h.TargetValue = in.TargetValue
	if in.IsActive != nil {
		h.IsActive = *in.IsActive
	}
	h.Normalize()
}
