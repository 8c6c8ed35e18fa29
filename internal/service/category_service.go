package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dayTracker/internal/logger"
	"dayTracker/internal/models"
	"dayTracker/internal/models/category"
	rep "dayTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MsgCategoryCreated   = "Category created successfully"
	MsgCategoryUpdated   = "Category updated successfully"
	MsgCategoryReordered = "Categories reordered successfully"
)

type CategoryInput struct {
	Name        string
	Description *string
	Color       *string
	Icon        *string
	// SortOrder <= 0 on create means "append after the last active category".
	SortOrder *int
	IsActive  *bool
}

type CategoryService struct {
	repo CategoryRepository
	opts options
}

func NewCategoryService(repo CategoryRepository, opts ...Option) *CategoryService {
	return &CategoryService{
		repo: repo,
		opts: applyOptions(opts),
	}
}

func (s *CategoryService) ListCategories(ctx context.Context, isActive *bool) (Result[[]*category.Category], error) {
	categories, err := s.repo.List(ctx, category.Filter{IsActive: isActive})
	if err != nil {
		return Result[[]*category.Category]{}, fmt.Errorf("listing categories: %w", err)
	}
	return Ok(categories, ""), nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (Result[*category.Category], error) {
	c, err := s.getCategory(ctx, id)
	if err != nil {
		return Result[*category.Category]{}, err
	}
	return Ok(c, ""), nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (Result[*category.Category], error) {
	sortOrder := 0
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	}

	if sortOrder <= 0 {
		maxOrder, err := s.repo.MaxActiveSortOrder(ctx)
		if err != nil {
			return Result[*category.Category]{}, fmt.Errorf("computing sort order: %w", err)
		}
		sortOrder = nextSortOrder(maxOrder)
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	c := &category.Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Description: optionalString(in.Description),
		Color:       optionalString(in.Color),
		Icon:        optionalString(in.Icon),
		SortOrder:   sortOrder,
		IsActive:    isActive,
		CreatedAt:   s.opts.stamp(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Result[*category.Category]{}, fmt.Errorf("creating category: %w", err)
	}

	logger.Info("Service: Category created",
		zap.String("category_id", c.ID.String()),
		zap.Int("sort_order", c.SortOrder))

	return Created(c, MsgCategoryCreated), nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (Result[*category.Category], error) {
	c, err := s.getCategory(ctx, id)
	if err != nil {
		return Result[*category.Category]{}, err
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Description = optionalString(in.Description)
	c.Color = optionalString(in.Color)
	c.Icon = optionalString(in.Icon)
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	c.UpdatedAt = s.opts.touch(c.UpdatedAt)

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return Result[*category.Category]{}, NewNotFound(CodeCategoryNotFound, MsgCategoryNotFound)
		}
		return Result[*category.Category]{}, fmt.Errorf("updating category: %w", err)
	}

	return Ok(c, MsgCategoryUpdated), nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) (Result[Empty], error) {
	if _, err := s.getCategory(ctx, id); err != nil {
		return Result[Empty]{}, err
	}

	hasTasks, err := s.repo.HasTasks(ctx, id)
	if err != nil {
		return Result[Empty]{}, fmt.Errorf("counting category tasks: %w", err)
	}
	if hasTasks {
		logger.Info("Service: Category still owns tasks", zap.String("category_id", id.String()))
		return Result[Empty]{}, NewBadRequest(CodeCategoryHasTasks, MsgCategoryHasTasks)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, rep.ErrNotFound):
			return Result[Empty]{}, NewNotFound(CodeCategoryNotFound, MsgCategoryNotFound)
		case errors.Is(err, rep.ErrConflict):
			// a task was added between the check and the delete
			return Result[Empty]{}, NewBadRequest(CodeCategoryHasTasks, MsgCategoryHasTasks)
		}
		return Result[Empty]{}, fmt.Errorf("deleting category: %w", err)
	}

	return NoContent(), nil
}

func (s *CategoryService) ReorderCategories(ctx context.Context, items []models.SortItem) (Result[Empty], error) {
	if len(items) == 0 {
		return Result[Empty]{}, NewBadRequest(CodeNoCategories, MsgNoCategories)
	}
	if hasDuplicateIDs(items) {
		return Result[Empty]{}, NewBadRequest(CodeCategoriesNotFound, MsgCategoriesNotFound)
	}

	if err := s.repo.Reorder(ctx, items, s.opts.stamp()); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Reorder references unknown categories", zap.Int("items", len(items)))
			return Result[Empty]{}, NewBadRequest(CodeCategoriesNotFound, MsgCategoriesNotFound)
		}
		return Result[Empty]{}, fmt.Errorf("reordering categories: %w", err)
	}

	return Ok(Empty{}, MsgCategoryReordered), nil
}

func (s *CategoryService) getCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Category not found", zap.String("target_id", id.String()))
			return nil, NewNotFound(CodeCategoryNotFound, MsgCategoryNotFound)
		}
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

func hasDuplicateIDs(items []models.SortItem) bool {
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			return true
		}
		seen[item.ID] = struct{}{}
	}
	return false
}
