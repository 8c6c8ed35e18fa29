package inmemory

import (
	"context"
	"sort"
	"strings"

	"dayTracker/internal/models/task"
	repo "dayTracker/internal/repository"

	"github.com/google/uuid"
)

type TaskRepo struct {
	s *Storage
}

func (r *TaskRepo) List(ctx context.Context, filter task.Filter) ([]*task.Task, int, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := []*task.Task{}
	for _, t := range r.s.tasks {
		if filter.IsDone != nil && t.IsDone != *filter.IsDone {
			continue
		}
		if filter.CategoryID != nil && t.CategoryID != *filter.CategoryID {
			continue
		}
		if search != "" && !matches(t, search) {
			continue
		}
		matched = append(matched, t)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.IsDone != b.IsDone {
			return !a.IsDone
		}
		la, lb := a.LastModified(), b.LastModified()
		if !la.Equal(lb) {
			return la.After(lb)
		}
		return a.ID.String() < b.ID.String()
	})

	total := len(matched)
	res := []*task.Task{}
	for i := filter.Offset(); i < total && len(res) < filter.PageSize; i++ {
		res = append(res, r.withCategory(matched[i]))
	}

	return res, total, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return r.withCategory(t), nil
}

func (r *TaskRepo) Create(ctx context.Context, t *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.categories[t.CategoryID]; !ok {
		return repo.ErrConflict
	}
	if _, exists := r.s.tasks[t.ID]; exists {
		return repo.ErrConflict
	}

	r.s.tasks[t.ID] = stripTask(t)
	return nil
}

func (r *TaskRepo) Update(ctx context.Context, t *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.tasks[t.ID]; !ok {
		return repo.ErrNotFound
	}
	if _, ok := r.s.categories[t.CategoryID]; !ok {
		return repo.ErrConflict
	}

	r.s.tasks[t.ID] = stripTask(t)
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *TaskRepo) withCategory(t *task.Task) *task.Task {
	out := *t
	if c, ok := r.s.categories[t.CategoryID]; ok {
		out.CategoryName = c.Name
		out.CategoryColor = c.Color
	}
	return &out
}

func stripTask(t *task.Task) *task.Task {
	stored := *t
	stored.CategoryName = ""
	stored.CategoryColor = nil
	return &stored
}

func matches(t *task.Task, search string) bool {
	if strings.Contains(strings.ToLower(t.Title), search) {
		return true
	}
	return t.Description != nil && strings.Contains(strings.ToLower(*t.Description), search)
}
