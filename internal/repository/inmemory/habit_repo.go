package inmemory

import (
	"context"
	"sort"
	"time"

	"dayTracker/internal/models"
	"dayTracker/internal/models/habit"
	repo "dayTracker/internal/repository"

	"github.com/google/uuid"
)

type HabitRepo struct {
	s *Storage
}

func (r *HabitRepo) List(ctx context.Context, filter habit.Filter) ([]*habit.Habit, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	res := []*habit.Habit{}
	for _, h := range r.s.habits {
		if filter.IsActive != nil && h.IsActive != *filter.IsActive {
			continue
		}
		out := *h
		out.Entries = r.entriesBetween(h.ID, filter.WeekStart, filter.WeekEnd())
		res = append(res, &out)
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].SortOrder != res[j].SortOrder {
			return res[i].SortOrder < res[j].SortOrder
		}
		return res[i].Name < res[j].Name
	})

	return res, nil
}

func (r *HabitRepo) GetByID(ctx context.Context, id uuid.UUID) (*habit.Habit, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	h, ok := r.s.habits[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	out := *h
	return &out, nil
}

func (r *HabitRepo) MaxActiveSortOrder(ctx context.Context) (int, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	maxOrder := 0
	for _, h := range r.s.habits {
		if h.IsActive && h.SortOrder > maxOrder {
			maxOrder = h.SortOrder
		}
	}
	return maxOrder, nil
}

func (r *HabitRepo) Create(ctx context.Context, h *habit.Habit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, exists := r.s.habits[h.ID]; exists {
		return repo.ErrConflict
	}
	r.s.habits[h.ID] = stripHabit(h)
	return nil
}

func (r *HabitRepo) Update(ctx context.Context, h *habit.Habit, clearEntries bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.habits[h.ID]; !ok {
		return repo.ErrNotFound
	}
	if clearEntries {
		r.deleteEntries(h.ID)
	}
	r.s.habits[h.ID] = stripHabit(h)
	return nil
}

func (r *HabitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.habits[id]; !ok {
		return repo.ErrNotFound
	}
	r.deleteEntries(id)
	delete(r.s.habits, id)
	return nil
}

func (r *HabitRepo) Reorder(ctx context.Context, items []models.SortItem, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	for _, item := range items {
		if _, ok := r.s.habits[item.ID]; !ok {
			return repo.ErrNotFound
		}
	}

	for _, item := range items {
		stamp := at
		h := r.s.habits[item.ID]
		h.SortOrder = item.SortOrder
		h.UpdatedAt = &stamp
	}
	return nil
}

func (r *HabitRepo) UpsertEntry(ctx context.Context, entry *habit.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.habits[entry.HabitID]; !ok {
		return repo.ErrNotFound
	}

	key := entryKey{habitID: entry.HabitID, date: entry.Date.String()}
	if id, exists := r.s.entryKeys[key]; exists {
		stored := r.s.entries[id]
		stamp := entry.CreatedAt
		stored.IsCompleted = entry.IsCompleted
		stored.Value = entry.Value
		stored.Notes = entry.Notes
		stored.UpdatedAt = &stamp
		*entry = *stored
		return nil
	}

	stored := *entry
	stored.UpdatedAt = nil
	r.s.entries[stored.ID] = &stored
	r.s.entryKeys[key] = stored.ID
	*entry = stored
	return nil
}

// entriesBetween expects the caller to hold the lock.
func (r *HabitRepo) entriesBetween(habitID uuid.UUID, from, to habit.Date) []*habit.Entry {
	res := []*habit.Entry{}
	for _, e := range r.s.entries {
		if e.HabitID != habitID || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out := *e
		res = append(res, &out)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Date.Before(res[j].Date)
	})
	return res
}

func (r *HabitRepo) deleteEntries(habitID uuid.UUID) {
	for id, e := range r.s.entries {
		if e.HabitID == habitID {
			delete(r.s.entries, id)
			delete(r.s.entryKeys, entryKey{habitID: habitID, date: e.Date.String()})
		}
	}
}

func stripHabit(h *habit.Habit) *habit.Habit {
	stored := *h
	stored.Entries = nil
	return &stored
}
