package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"dayTracker/internal/models"
	"dayTracker/internal/models/category"
	"dayTracker/internal/models/habit"
	"dayTracker/internal/models/task"
	rep "dayTracker/internal/repository"
	"dayTracker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context, filter category.Filter) ([]*category.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryRepository) MaxActiveSortOrder(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *category.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *category.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCategoryRepository) HasTasks(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Reorder(ctx context.Context, items []models.SortItem, at time.Time) error {
	return m.Called(ctx, items, at).Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) List(ctx context.Context, filter task.Filter) ([]*task.Task, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*task.Task), args.Int(1), args.Error(2)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockHabitRepository struct {
	mock.Mock
}

func (m *MockHabitRepository) List(ctx context.Context, filter habit.Filter) ([]*habit.Habit, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*habit.Habit), args.Error(1)
}

func (m *MockHabitRepository) GetByID(ctx context.Context, id uuid.UUID) (*habit.Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*habit.Habit), args.Error(1)
}

func (m *MockHabitRepository) MaxActiveSortOrder(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockHabitRepository) Create(ctx context.Context, h *habit.Habit) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHabitRepository) Update(ctx context.Context, h *habit.Habit, clearEntries bool) error {
	return m.Called(ctx, h, clearEntries).Error(0)
}

func (m *MockHabitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockHabitRepository) Reorder(ctx context.Context, items []models.SortItem, at time.Time) error {
	return m.Called(ctx, items, at).Error(0)
}

func (m *MockHabitRepository) UpsertEntry(ctx context.Context, entry *habit.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

var (
	_ service.CategoryRepository = (*MockCategoryRepository)(nil)
	_ service.TaskRepository     = (*MockTaskRepository)(nil)
	_ service.HabitRepository    = (*MockHabitRepository)(nil)
)

var fixedNow = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func requireBusinessError(t *testing.T, err error, status service.Status, code string) {
	t.Helper()
	busErr, ok := service.AsBusinessError(err)
	require.True(t, ok, "expected business error, got %v", err)
	assert.Equal(t, status, busErr.Status)
	assert.Equal(t, code, busErr.Code)
}

func ptr[T any](v T) *T {
	return &v
}

func TestCategoryService_CreateCategory(t *testing.T) {
	tests := []struct {
		name          string
		input         service.CategoryInput
		setupMock     func(*MockCategoryRepository)
		expectedOrder int
		expectedErr   bool
	}{
		{
			name:  "success - appends after last active category",
			input: service.CategoryInput{Name: "  Work  ", Color: ptr("#FF0000")},
			setupMock: func(m *MockCategoryRepository) {
				m.On("MaxActiveSortOrder", mock.Anything).Return(4, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*category.Category")).Return(nil)
			},
			expectedOrder: 5,
		},
		{
			name:  "success - explicit sort order",
			input: service.CategoryInput{Name: "Home", SortOrder: ptr(9)},
			setupMock: func(m *MockCategoryRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*category.Category")).Return(nil)
			},
			expectedOrder: 9,
		},
		{
			name:  "success - first category",
			input: service.CategoryInput{Name: "Home", SortOrder: ptr(0)},
			setupMock: func(m *MockCategoryRepository) {
				m.On("MaxActiveSortOrder", mock.Anything).Return(0, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*category.Category")).Return(nil)
			},
			expectedOrder: 1,
		},
		{
			name:  "success - negative sort order is computed",
			input: service.CategoryInput{Name: "Home", SortOrder: ptr(-3)},
			setupMock: func(m *MockCategoryRepository) {
				m.On("MaxActiveSortOrder", mock.Anything).Return(2, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*category.Category")).Return(nil)
			},
			expectedOrder: 3,
		},
		{
			name:  "error - repository error",
			input: service.CategoryInput{Name: "Home", SortOrder: ptr(1)},
			setupMock: func(m *MockCategoryRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
			},
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCategoryRepository)
			tt.setupMock(repo)

			svc := service.NewCategoryService(repo, service.WithClock(fixedClock))

			res, err := svc.CreateCategory(context.Background(), tt.input)

			if tt.expectedErr {
				require.Error(t, err)
				_, isBusiness := service.AsBusinessError(err)
				assert.False(t, isBusiness)
			} else {
				require.NoError(t, err)
				assert.Equal(t, service.StatusCreated, res.Status)
				assert.Equal(t, service.MsgCategoryCreated, res.Message)
				assert.Equal(t, tt.expectedOrder, res.Data.SortOrder)
				assert.Equal(t, strings.TrimSpace(tt.input.Name), res.Data.Name)
				assert.True(t, res.Data.IsActive)
				assert.Equal(t, fixedNow, res.Data.CreatedAt)
				assert.Nil(t, res.Data.UpdatedAt)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		setupMock      func(*MockCategoryRepository)
		expectedStatus service.Status
		expectedCode   string
	}{
		{
			name: "success - deleted",
			setupMock: func(m *MockCategoryRepository) {
				m.On("GetByID", mock.Anything, id).Return(&category.Category{ID: id}, nil)
				m.On("HasTasks", mock.Anything, id).Return(false, nil)
				m.On("Delete", mock.Anything, id).Return(nil)
			},
			expectedStatus: service.StatusNoContent,
		},
		{
			name: "error - not found",
			setupMock: func(m *MockCategoryRepository) {
				m.On("GetByID", mock.Anything, id).Return(nil, rep.ErrNotFound)
			},
			expectedStatus: service.StatusNotFound,
			expectedCode:   service.CodeCategoryNotFound,
		},
		{
			name: "error - has tasks",
			setupMock: func(m *MockCategoryRepository) {
				m.On("GetByID", mock.Anything, id).Return(&category.Category{ID: id}, nil)
				m.On("HasTasks", mock.Anything, id).Return(true, nil)
			},
			expectedStatus: service.StatusBadRequest,
			expectedCode:   service.CodeCategoryHasTasks,
		},
		{
			name: "error - task added before delete",
			setupMock: func(m *MockCategoryRepository) {
				m.On("GetByID", mock.Anything, id).Return(&category.Category{ID: id}, nil)
				m.On("HasTasks", mock.Anything, id).Return(false, nil)
				m.On("Delete", mock.Anything, id).Return(rep.ErrConflict)
			},
			expectedStatus: service.StatusBadRequest,
			expectedCode:   service.CodeCategoryHasTasks,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCategoryRepository)
			tt.setupMock(repo)

			svc := service.NewCategoryService(repo)

			res, err := svc.DeleteCategory(context.Background(), id)

			if tt.expectedCode != "" {
				requireBusinessError(t, err, tt.expectedStatus, tt.expectedCode)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, res.Status)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestCategoryService_ReorderCategories(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	tests := []struct {
		name         string
		items        []models.SortItem
		setupMock    func(*MockCategoryRepository)
		expectedCode string
	}{
		{
			name:         "error - empty list",
			items:        nil,
			setupMock:    func(m *MockCategoryRepository) {},
			expectedCode: service.CodeNoCategories,
		},
		{
			name:         "error - duplicate ids",
			items:        []models.SortItem{{ID: a, SortOrder: 1}, {ID: a, SortOrder: 2}},
			setupMock:    func(m *MockCategoryRepository) {},
			expectedCode: service.CodeCategoriesNotFound,
		},
		{
			name:  "error - unknown id",
			items: []models.SortItem{{ID: a, SortOrder: 1}, {ID: b, SortOrder: 2}},
			setupMock: func(m *MockCategoryRepository) {
				m.On("Reorder", mock.Anything, mock.Anything, fixedNow).Return(rep.ErrNotFound)
			},
			expectedCode: service.CodeCategoriesNotFound,
		},
		{
			name:  "success - reordered",
			items: []models.SortItem{{ID: a, SortOrder: 2}, {ID: b, SortOrder: 1}},
			setupMock: func(m *MockCategoryRepository) {
				m.On("Reorder", mock.Anything, []models.SortItem{{ID: a, SortOrder: 2}, {ID: b, SortOrder: 1}}, fixedNow).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCategoryRepository)
			tt.setupMock(repo)

			svc := service.NewCategoryService(repo, service.WithClock(fixedClock))

			res, err := svc.ReorderCategories(context.Background(), tt.items)

			if tt.expectedCode != "" {
				requireBusinessError(t, err, service.StatusBadRequest, tt.expectedCode)
			} else {
				require.NoError(t, err)
				assert.Equal(t, service.MsgCategoryReordered, res.Message)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	categoryID := uuid.New()

	t.Run("error - unknown category", func(t *testing.T) {
		tasks, categories := new(MockTaskRepository), new(MockCategoryRepository)
		categories.On("GetByID", mock.Anything, categoryID).Return(nil, rep.ErrNotFound)

		svc := service.NewTaskService(tasks, categories)

		_, err := svc.CreateTask(context.Background(), service.TaskInput{Title: "x", CategoryID: categoryID})

		requireBusinessError(t, err, service.StatusBadRequest, service.CodeCategoryNotFound)
		tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("success - carries category fields", func(t *testing.T) {
		tasks, categories := new(MockTaskRepository), new(MockCategoryRepository)
		categories.On("GetByID", mock.Anything, categoryID).
			Return(&category.Category{ID: categoryID, Name: "Shopping", Color: ptr("#96CEB4")}, nil)
		tasks.On("Create", mock.Anything, mock.AnythingOfType("*task.Task")).Return(nil)

		svc := service.NewTaskService(tasks, categories, service.WithClock(fixedClock))

		res, err := svc.CreateTask(context.Background(), service.TaskInput{
			Title:       " Milk ",
			Description: ptr("   "),
			CategoryID:  categoryID,
		})

		require.NoError(t, err)
		assert.Equal(t, service.StatusCreated, res.Status)
		assert.Equal(t, "Milk", res.Data.Title)
		assert.Nil(t, res.Data.Description)
		assert.False(t, res.Data.IsDone)
		assert.Equal(t, "Shopping", res.Data.CategoryName)
		assert.Equal(t, fixedNow, res.Data.CreatedAt)
		tasks.AssertExpectations(t)
	})
}

func TestTaskService_ToggleTask_AdvancesUpdatedAt(t *testing.T) {
	id := uuid.New()
	stored := &task.Task{ID: id, UpdatedAt: ptr(fixedNow)}

	tasks := new(MockTaskRepository)
	tasks.On("GetByID", mock.Anything, id).Return(stored, nil)
	tasks.On("Update", mock.Anything, stored).Return(nil)

	// The clock has not moved since the last write.
	svc := service.NewTaskService(tasks, new(MockCategoryRepository), service.WithClock(fixedClock))

	res, err := svc.ToggleTask(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, res.Data.IsDone)
	require.NotNil(t, res.Data.UpdatedAt)
	assert.Equal(t, fixedNow.Add(time.Microsecond), *res.Data.UpdatedAt)
	assert.Equal(t, service.MsgTaskToggled, res.Message)
}

func TestTaskService_ListTasks_NormalizesFilter(t *testing.T) {
	tasks := new(MockTaskRepository)
	tasks.On("List", mock.Anything, task.Filter{Search: "milk", Page: 1, PageSize: 100}).
		Return([]*task.Task{}, 250, nil)

	svc := service.NewTaskService(tasks, new(MockCategoryRepository))

	res, err := svc.ListTasks(context.Background(), task.Filter{Search: "  milk ", Page: 0, PageSize: 1000})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Data.TotalPages)
	assert.True(t, res.Data.HasNextPage)
	assert.False(t, res.Data.HasPreviousPage)
	assert.NotNil(t, res.Data.Items)
	tasks.AssertExpectations(t)
}

func TestTaskService_UpdateTask_MissingCategory(t *testing.T) {
	id, target := uuid.New(), uuid.New()

	tasks, categories := new(MockTaskRepository), new(MockCategoryRepository)
	tasks.On("GetByID", mock.Anything, id).Return(&task.Task{ID: id, CategoryID: uuid.New()}, nil)
	categories.On("GetByID", mock.Anything, target).Return(nil, rep.ErrNotFound)

	svc := service.NewTaskService(tasks, categories)

	_, err := svc.UpdateTask(context.Background(), id, task.WithTitle("x"), task.WithCategory(target))

	requireBusinessError(t, err, service.StatusBadRequest, service.CodeCategoryNotFound)
	tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHabitService_UpdateHabit(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name            string
		stored          habit.Habit
		input           service.HabitInput
		expectedClear   bool
		expectedMessage string
	}{
		{
			name:            "same type keeps entries",
			stored:          habit.Habit{ID: id, Type: habit.TypeNumeric},
			input:           service.HabitInput{Name: "Water", Type: habit.TypeNumeric, TargetValue: ptr(10)},
			expectedClear:   false,
			expectedMessage: service.MsgHabitUpdated,
		},
		{
			name:            "type change clears entries",
			stored:          habit.Habit{ID: id, Type: habit.TypeNumeric},
			input:           service.HabitInput{Name: "Water", Type: habit.TypeBoolean, Unit: ptr("glass"), TargetValue: ptr(8)},
			expectedClear:   true,
			expectedMessage: service.MsgHabitUpdatedEntriesReset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := tt.stored
			repo := new(MockHabitRepository)
			repo.On("GetByID", mock.Anything, id).Return(&stored, nil)
			repo.On("Update", mock.Anything, mock.AnythingOfType("*habit.Habit"), tt.expectedClear).Return(nil)

			svc := service.NewHabitService(repo, service.WithClock(fixedClock))

			res, err := svc.UpdateHabit(context.Background(), id, tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedMessage, res.Message)
			assert.Equal(t, tt.input.Type, res.Data.Type)
			assert.Equal(t, habit.DefaultColor, res.Data.Color)
			if res.Data.Type == habit.TypeBoolean {
				assert.Nil(t, res.Data.Unit)
				assert.Nil(t, res.Data.TargetValue)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestHabitService_UpsertEntry(t *testing.T) {
	id := uuid.New()
	date := habit.NewDate(2024, 3, 12)

	t.Run("boolean habit drops value", func(t *testing.T) {
		repo := new(MockHabitRepository)
		repo.On("GetByID", mock.Anything, id).Return(&habit.Habit{ID: id, Type: habit.TypeBoolean}, nil)
		repo.On("UpsertEntry", mock.Anything, mock.MatchedBy(func(e *habit.Entry) bool {
			return e.HabitID == id && e.Date == date && e.Value == nil && e.IsCompleted
		})).Return(nil)

		svc := service.NewHabitService(repo, service.WithClock(fixedClock))

		res, err := svc.UpsertEntry(context.Background(), id, service.HabitEntryInput{
			Date: date, IsCompleted: true, Value: ptr(3),
		})
		require.NoError(t, err)
		assert.Equal(t, service.MsgHabitEntryUpdated, res.Message)
		repo.AssertExpectations(t)
	})

	t.Run("habit removed concurrently", func(t *testing.T) {
		repo := new(MockHabitRepository)
		repo.On("GetByID", mock.Anything, id).Return(&habit.Habit{ID: id, Type: habit.TypeNumeric}, nil)
		repo.On("UpsertEntry", mock.Anything, mock.Anything).Return(rep.ErrConflict)

		svc := service.NewHabitService(repo)

		_, err := svc.UpsertEntry(context.Background(), id, service.HabitEntryInput{Date: date})
		requireBusinessError(t, err, service.StatusNotFound, service.CodeHabitNotFound)
	})

	t.Run("unknown habit", func(t *testing.T) {
		repo := new(MockHabitRepository)
		repo.On("GetByID", mock.Anything, id).Return(nil, rep.ErrNotFound)

		svc := service.NewHabitService(repo)

		_, err := svc.UpsertEntry(context.Background(), id, service.HabitEntryInput{Date: date})
		requireBusinessError(t, err, service.StatusNotFound, service.CodeHabitNotFound)
		repo.AssertNotCalled(t, "UpsertEntry", mock.Anything, mock.Anything)
	})
}

func TestHabitService_ListHabits_DefaultsToCurrentWeek(t *testing.T) {
	repo := new(MockHabitRepository)
	// fixedNow is a Wednesday; the week starts on Sunday the 10th.
	repo.On("List", mock.Anything, habit.Filter{WeekStart: habit.NewDate(2024, 3, 10)}).
		Return([]*habit.Habit{{Name: "Water"}}, nil)

	svc := service.NewHabitService(repo, service.WithClock(fixedClock))

	res, err := svc.ListHabits(context.Background(), nil, nil)
	require.NoError(t, err)

	require.Len(t, res.Data, 1)
	assert.NotNil(t, res.Data[0].Entries)
	repo.AssertExpectations(t)
}
