package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"dayTracker/internal/models"
	"dayTracker/internal/models/category"
	"dayTracker/internal/models/habit"
	"dayTracker/internal/models/task"
	"dayTracker/internal/repository"
	"dayTracker/internal/repository/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newCategory(t *testing.T, s *inmemory.Storage, name string, order int, active bool) *category.Category {
	t.Helper()
	c := &category.Category{
		ID:        uuid.New(),
		Name:      name,
		SortOrder: order,
		IsActive:  active,
		CreatedAt: base,
	}
	require.NoError(t, s.Categories().Create(context.Background(), c))
	return c
}

func newTask(t *testing.T, s *inmemory.Storage, categoryID uuid.UUID, title string, created time.Time) *task.Task {
	t.Helper()
	tk := &task.Task{
		ID:         uuid.New(),
		Title:      title,
		CategoryID: categoryID,
		CreatedAt:  created,
	}
	require.NoError(t, s.Tasks().Create(context.Background(), tk))
	return tk
}

func newHabit(t *testing.T, s *inmemory.Storage, name string, order int) *habit.Habit {
	t.Helper()
	h := &habit.Habit{
		ID:        uuid.New(),
		Name:      name,
		Color:     habit.DefaultColor,
		Icon:      habit.DefaultIcon,
		Type:      habit.TypeBoolean,
		IsActive:  true,
		SortOrder: order,
		CreatedAt: base,
	}
	require.NoError(t, s.Habits().Create(context.Background(), h))
	return h
}

// TestStorage_HealthCheck checks the health probe
func TestStorage_HealthCheck(t *testing.T) {
	s := inmemory.New()
	assert.NoError(t, s.HealthCheck(context.Background()))
}

func TestCategoryRepo_ListOrderAndCounts(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()

	b := newCategory(t, s, "Bravo", 2, true)
	a := newCategory(t, s, "Alpha", 2, true)
	first := newCategory(t, s, "Zulu", 1, true)
	newCategory(t, s, "Hidden", 0, false)

	newTask(t, s, a.ID, "one", base)
	newTask(t, s, a.ID, "two", base)

	active := true
	got, err := s.Categories().List(ctx, category.Filter{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
	assert.Equal(t, b.ID, got[2].ID)
	assert.Equal(t, 2, got[1].TaskCount)
	assert.Equal(t, 0, got[2].TaskCount)

	all, err := s.Categories().List(ctx, category.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCategoryRepo_GetByID_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()
	c := newCategory(t, s, "Daily", 1, true)

	got, err := s.Categories().GetByID(ctx, c.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, err := s.Categories().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Daily", again.Name)

	_, err = s.Categories().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCategoryRepo_MaxActiveSortOrder(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()

	got, err := s.Categories().MaxActiveSortOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	newCategory(t, s, "a", 3, true)
	newCategory(t, s, "b", 9, false)

	got, err = s.Categories().MaxActiveSortOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestCategoryRepo_DeleteWithTasks(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()
	c := newCategory(t, s, "Busy", 1, true)
	tk := newTask(t, s, c.ID, "task", base)

	hasTasks, err := s.Categories().HasTasks(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, hasTasks)
	assert.ErrorIs(t, s.Categories().Delete(ctx, c.ID), repository.ErrConflict)

	require.NoError(t, s.Tasks().Delete(ctx, tk.ID))
	require.NoError(t, s.Categories().Delete(ctx, c.ID))
	assert.ErrorIs(t, s.Categories().Delete(ctx, c.ID), repository.ErrNotFound)
}

func TestCategoryRepo_ReorderIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()
	a := newCategory(t, s, "a", 1, true)
	b := newCategory(t, s, "b", 2, true)
	at := base.Add(time.Hour)

	err := s.Categories().Reorder(ctx, []models.SortItem{
		{ID: a.ID, SortOrder: 5},
		{ID: uuid.New(), SortOrder: 6},
	}, at)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := s.Categories().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SortOrder)
	assert.Nil(t, got.UpdatedAt)

	require.NoError(t, s.Categories().Reorder(ctx, []models.SortItem{
		{ID: a.ID, SortOrder: 2},
		{ID: b.ID, SortOrder: 1},
	}, at))

	list, err := s.Categories().List(ctx, category.Filter{})
	require.NoError(t, err)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, at, *list[0].UpdatedAt)
}

func TestTaskRepo_CreateRequiresCategory(t *testing.T) {
	s := inmemory.New()
	err := s.Tasks().Create(context.Background(), &task.Task{
		ID:         uuid.New(),
		Title:      "orphan",
		CategoryID: uuid.New(),
		CreatedAt:  base,
	})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestTaskRepo_GetByIDCarriesCategory(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()
	color := "#FF6B6B"
	c := &category.Category{ID: uuid.New(), Name: "Movies", Color: &color, IsActive: true, CreatedAt: base}
	require.NoError(t, s.Categories().Create(ctx, c))
	tk := newTask(t, s, c.ID, "Watch", base)

	got, err := s.Tasks().GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Movies", got.CategoryName)
	assert.Equal(t, "#FF6B6B", *got.CategoryColor)
}

func TestTaskRepo_ListFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()
	work := newCategory(t, s, "Work", 1, true)
	home := newCategory(t, s, "Home", 2, true)

	oldest := newTask(t, s, work.ID, "Write report", base)
	middle := newTask(t, s, work.ID, "Review PR", base.Add(time.Minute))
	newest := newTask(t, s, home.ID, "Buy milk", base.Add(2*time.Minute))

	// touching the oldest task moves it to the top
	touched := base.Add(time.Hour)
	oldest.UpdatedAt = &touched
	require.NoError(t, s.Tasks().Update(ctx, oldest))

	middle.IsDone = true
	require.NoError(t, s.Tasks().Update(ctx, middle))

	items, total, err := s.Tasks().List(ctx, task.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 3)
	assert.Equal(t, oldest.ID, items[0].ID)
	assert.Equal(t, newest.ID, items[1].ID)
	assert.Equal(t, middle.ID, items[2].ID)

	done := true
	items, total, err = s.Tasks().List(ctx, task.Filter{IsDone: &done, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, middle.ID, items[0].ID)

	items, total, err = s.Tasks().List(ctx, task.Filter{CategoryID: &home.ID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Home", items[0].CategoryName)

	items, total, err = s.Tasks().List(ctx, task.Filter{Search: "REPORT", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, oldest.ID, items[0].ID)
}

func TestTaskRepo_ListPaging(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()
	c := newCategory(t, s, "Bulk", 1, true)
	for i := 0; i < 7; i++ {
		newTask(t, s, c.ID, fmt.Sprintf("task %d", i), base.Add(time.Duration(i)*time.Second))
	}

	items, total, err := s.Tasks().List(ctx, task.Filter{Page: 3, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, items, 1)
	assert.Equal(t, "task 0", items[0].Title)

	items, _, err = s.Tasks().List(ctx, task.Filter{Page: 4, PageSize: 3})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHabitRepo_UpsertEntryKeepsOneRowPerDay(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()
	h := newHabit(t, s, "Water", 1)
	day := habit.NewDate(2024, time.June, 3)

	first := &habit.Entry{ID: uuid.New(), HabitID: h.ID, Date: day, IsCompleted: true, CreatedAt: base}
	require.NoError(t, s.Habits().UpsertEntry(ctx, first))
	assert.Nil(t, first.UpdatedAt)

	second := &habit.Entry{ID: uuid.New(), HabitID: h.ID, Date: day, IsCompleted: false, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, s.Habits().UpsertEntry(ctx, second))
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, base, second.CreatedAt)
	require.NotNil(t, second.UpdatedAt)
	assert.Equal(t, base.Add(time.Hour), *second.UpdatedAt)

	habits, err := s.Habits().List(ctx, habit.Filter{WeekStart: habit.NewDate(2024, time.June, 2)})
	require.NoError(t, err)
	require.Len(t, habits, 1)
	require.Len(t, habits[0].Entries, 1)
	assert.False(t, habits[0].Entries[0].IsCompleted)

	err = s.Habits().UpsertEntry(ctx, &habit.Entry{ID: uuid.New(), HabitID: uuid.New(), Date: day, CreatedAt: base})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestHabitRepo_ListWeekWindow(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()
	h := newHabit(t, s, "Read", 1)
	start := habit.NewDate(2024, time.June, 2)

	for _, offset := range []int{-1, 0, 3, 6, 7} {
		require.NoError(t, s.Habits().UpsertEntry(ctx, &habit.Entry{
			ID:        uuid.New(),
			HabitID:   h.ID,
			Date:      start.AddDays(offset),
			CreatedAt: base,
		}))
	}

	habits, err := s.Habits().List(ctx, habit.Filter{WeekStart: start})
	require.NoError(t, err)
	require.Len(t, habits, 1)
	require.Len(t, habits[0].Entries, 3)
	assert.Equal(t, "2024-06-02", habits[0].Entries[0].Date.String())
	assert.Equal(t, "2024-06-08", habits[0].Entries[2].Date.String())
}

func TestHabitRepo_UpdateClearsEntries(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()
	h := newHabit(t, s, "Run", 1)
	day := habit.NewDate(2024, time.June, 3)
	require.NoError(t, s.Habits().UpsertEntry(ctx, &habit.Entry{ID: uuid.New(), HabitID: h.ID, Date: day, CreatedAt: base}))

	h.Name = "Run fast"
	require.NoError(t, s.Habits().Update(ctx, h, false))
	habits, err := s.Habits().List(ctx, habit.Filter{WeekStart: habit.NewDate(2024, time.June, 2)})
	require.NoError(t, err)
	assert.Len(t, habits[0].Entries, 1)

	h.Type = habit.TypeNumeric
	require.NoError(t, s.Habits().Update(ctx, h, true))
	habits, err = s.Habits().List(ctx, habit.Filter{WeekStart: habit.NewDate(2024, time.June, 2)})
	require.NoError(t, err)
	assert.Empty(t, habits[0].Entries)
	assert.Equal(t, "Run fast", habits[0].Name)
}

func TestHabitRepo_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()
	h := newHabit(t, s, "Meditate", 1)
	day := habit.NewDate(2024, time.June, 3)
	require.NoError(t, s.Habits().UpsertEntry(ctx, &habit.Entry{ID: uuid.New(), HabitID: h.ID, Date: day, CreatedAt: base}))

	require.NoError(t, s.Habits().Delete(ctx, h.ID))
	assert.ErrorIs(t, s.Habits().Delete(ctx, h.ID), repository.ErrNotFound)

	// the same day can be used by a new habit without clashing with leftovers
	other := newHabit(t, s, "Stretch", 2)
	entry := &habit.Entry{ID: uuid.New(), HabitID: other.ID, Date: day, CreatedAt: base}
	require.NoError(t, s.Habits().UpsertEntry(ctx, entry))
	assert.Nil(t, entry.UpdatedAt)
}

// TestStorage_ConcurrentUpserts checks the storage under parallel writers
func TestStorage_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()
	h := newHabit(t, s, "Water", 1)
	day := habit.NewDate(2024, time.June, 3)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value := i
			_ = s.Habits().UpsertEntry(ctx, &habit.Entry{
				ID:        uuid.New(),
				HabitID:   h.ID,
				Date:      day,
				Value:     &value,
				CreatedAt: base,
			})
		}(i)
	}
	wg.Wait()

	habits, err := s.Habits().List(ctx, habit.Filter{WeekStart: habit.NewDate(2024, time.June, 2)})
	require.NoError(t, err)
	assert.Len(t, habits[0].Entries, 1)
}
