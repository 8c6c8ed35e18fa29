package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dayTracker/internal/middleware"
	"dayTracker/internal/models"
	"dayTracker/internal/models/category"
	"dayTracker/internal/models/habit"
	"dayTracker/internal/models/task"
	"dayTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) ListCategories(ctx context.Context, isActive *bool) (service.Result[[]*category.Category], error) {
	args := m.Called(ctx, isActive)
	return args.Get(0).(service.Result[[]*category.Category]), args.Error(1)
}

func (m *MockCategoryService) GetCategory(ctx context.Context, id uuid.UUID) (service.Result[*category.Category], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Result[*category.Category]), args.Error(1)
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, in service.CategoryInput) (service.Result[*category.Category], error) {
	args := m.Called(ctx, in)
	return args.Get(0).(service.Result[*category.Category]), args.Error(1)
}

func (m *MockCategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, in service.CategoryInput) (service.Result[*category.Category], error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(service.Result[*category.Category]), args.Error(1)
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) (service.Result[service.Empty], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Result[service.Empty]), args.Error(1)
}

func (m *MockCategoryService) ReorderCategories(ctx context.Context, items []models.SortItem) (service.Result[service.Empty], error) {
	args := m.Called(ctx, items)
	return args.Get(0).(service.Result[service.Empty]), args.Error(1)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) ListTasks(ctx context.Context, filter task.Filter) (service.Result[service.PagedResult[*task.Task]], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(service.Result[service.PagedResult[*task.Task]]), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, id uuid.UUID) (service.Result[*task.Task], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Result[*task.Task]), args.Error(1)
}

func (m *MockTaskService) CreateTask(ctx context.Context, in service.TaskInput) (service.Result[*task.Task], error) {
	args := m.Called(ctx, in)
	return args.Get(0).(service.Result[*task.Task]), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (service.Result[*task.Task], error) {
	args := m.Called(ctx, id, options)
	return args.Get(0).(service.Result[*task.Task]), args.Error(1)
}

func (m *MockTaskService) ToggleTask(ctx context.Context, id uuid.UUID) (service.Result[*task.Task], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Result[*task.Task]), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) (service.Result[service.Empty], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Result[service.Empty]), args.Error(1)
}

type MockHabitService struct {
	mock.Mock
}

func (m *MockHabitService) ListHabits(ctx context.Context, isActive *bool, weekStart *habit.Date) (service.Result[[]*habit.Habit], error) {
	args := m.Called(ctx, isActive, weekStart)
	return args.Get(0).(service.Result[[]*habit.Habit]), args.Error(1)
}

func (m *MockHabitService) CreateHabit(ctx context.Context, in service.HabitInput) (service.Result[*habit.Habit], error) {
	args := m.Called(ctx, in)
	return args.Get(0).(service.Result[*habit.Habit]), args.Error(1)
}

func (m *MockHabitService) UpdateHabit(ctx context.Context, id uuid.UUID, in service.HabitInput) (service.Result[*habit.Habit], error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(service.Result[*habit.Habit]), args.Error(1)
}

func (m *MockHabitService) DeleteHabit(ctx context.Context, id uuid.UUID) (service.Result[service.Empty], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Result[service.Empty]), args.Error(1)
}

func (m *MockHabitService) ReorderHabits(ctx context.Context, items []models.SortItem) (service.Result[service.Empty], error) {
	args := m.Called(ctx, items)
	return args.Get(0).(service.Result[service.Empty]), args.Error(1)
}

func (m *MockHabitService) UpsertEntry(ctx context.Context, habitID uuid.UUID, in service.HabitEntryInput) (service.Result[*habit.Entry], error) {
	args := m.Called(ctx, habitID, in)
	return args.Get(0).(service.Result[*habit.Entry]), args.Error(1)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// envelope mirrors handlers.Envelope with raw data for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Message *string         `json:"message"`
	Data    json.RawMessage `json:"data"`
	TraceID *string         `json:"traceId"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// newRequest builds a request carrying chi URL params and a request id.
func newRequest(method, target, body string, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIdKey, "test-request-id")
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func decodeFields(t *testing.T, env envelope) []fieldError {
	t.Helper()
	var fields []fieldError
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	return fields
}

func decodeCode(t *testing.T, env envelope) string {
	t.Helper()
	var data struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Code
}

func ptr[T any](v T) *T {
	return &v
}
