package inmemory

import (
	"context"
	"sort"
	"time"

	"dayTracker/internal/models"
	"dayTracker/internal/models/category"
	repo "dayTracker/internal/repository"

	"github.com/google/uuid"
)

type CategoryRepo struct {
	s *Storage
}

func (r *CategoryRepo) List(ctx context.Context, filter category.Filter) ([]*category.Category, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	res := []*category.Category{}
	for _, c := range r.s.categories {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		res = append(res, r.withCount(c))
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].SortOrder != res[j].SortOrder {
			return res[i].SortOrder < res[j].SortOrder
		}
		return res[i].Name < res[j].Name
	})

	return res, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return r.withCount(c), nil
}

func (r *CategoryRepo) MaxActiveSortOrder(ctx context.Context) (int, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	maxOrder := 0
	for _, c := range r.s.categories {
		if c.IsActive && c.SortOrder > maxOrder {
			maxOrder = c.SortOrder
		}
	}
	return maxOrder, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, exists := r.s.categories[c.ID]; exists {
		return repo.ErrConflict
	}

	stored := *c
	stored.TaskCount = 0
	r.s.categories[c.ID] = &stored
	return nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *category.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.categories[c.ID]; !ok {
		return repo.ErrNotFound
	}

	stored := *c
	r.s.categories[c.ID] = &stored
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return repo.ErrNotFound
	}
	if r.countTasks(id) > 0 {
		return repo.ErrConflict
	}

	delete(r.s.categories, id)
	return nil
}

func (r *CategoryRepo) HasTasks(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	return r.countTasks(id) > 0, nil
}

func (r *CategoryRepo) Reorder(ctx context.Context, items []models.SortItem, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	for _, item := range items {
		if _, ok := r.s.categories[item.ID]; !ok {
			return repo.ErrNotFound
		}
	}

	for _, item := range items {
		stamp := at
		c := r.s.categories[item.ID]
		c.SortOrder = item.SortOrder
		c.UpdatedAt = &stamp
	}
	return nil
}

// countTasks expects the caller to hold the lock.
func (r *CategoryRepo) countTasks(id uuid.UUID) int {
	n := 0
	for _, t := range r.s.tasks {
		if t.CategoryID == id {
			n++
		}
	}
	return n
}

func (r *CategoryRepo) withCount(c *category.Category) *category.Category {
	out := *c
	out.TaskCount = r.countTasks(c.ID)
	return &out
}
