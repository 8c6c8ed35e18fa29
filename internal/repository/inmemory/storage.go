package inmemory

import (
	"context"
	"sync"

	"dayTracker/internal/logger"
	"dayTracker/internal/models/category"
	"dayTracker/internal/models/habit"
	"dayTracker/internal/models/task"

	"github.com/google/uuid"
)

type entryKey struct {
	habitID uuid.UUID
	date    string
}

// Storage keeps every table behind a single lock.
type Storage struct {
	mtx        *sync.RWMutex
	categories map[uuid.UUID]*category.Category
	tasks      map[uuid.UUID]*task.Task
	habits     map[uuid.UUID]*habit.Habit
	entries    map[uuid.UUID]*habit.Entry
	entryKeys  map[entryKey]uuid.UUID
}

func New() *Storage {
	return &Storage{
		mtx:        &sync.RWMutex{},
		categories: make(map[uuid.UUID]*category.Category),
		tasks:      make(map[uuid.UUID]*task.Task),
		habits:     make(map[uuid.UUID]*habit.Habit),
		entries:    make(map[uuid.UUID]*habit.Entry),
		entryKeys:  make(map[entryKey]uuid.UUID),
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: In-memory storage is healthy")
	return nil
}

func (s *Storage) Close() {
	logger.Info("Repository: In-memory storage closed")
}

func (s *Storage) Categories() *CategoryRepo {
	return &CategoryRepo{s: s}
}

func (s *Storage) Tasks() *TaskRepo {
	return &TaskRepo{s: s}
}

func (s *Storage) Habits() *HabitRepo {
	return &HabitRepo{s: s}
}
