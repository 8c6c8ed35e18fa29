package sqlite

import (
	"time"

	"dayTracker/internal/models/category"
	"dayTracker/internal/models/habit"
	"dayTracker/internal/models/task"

	"github.com/google/uuid"
)

type categoryRecord struct {
	ID           uuid.UUID  `gorm:"type:text;primaryKey"`
	Name         string     `gorm:"size:100;not null;index:idx_categories_name"`
	Description  *string    `gorm:"size:500"`
	Color        *string    `gorm:"size:7"`
	Icon         *string    `gorm:"size:50"`
	SortOrder    int        `gorm:"not null;default:0;index:idx_categories_sort_order"`
	IsActive     bool       `gorm:"not null;index:idx_categories_is_active"`
	CreatedAtUtc time.Time  `gorm:"column:created_at_utc;not null"`
	UpdatedAtUtc *time.Time `gorm:"column:updated_at_utc"`

	TaskCount int `gorm:"->;-:migration"`
}

func (categoryRecord) TableName() string { return "categories" }

func newCategoryRecord(c *category.Category) *categoryRecord {
	return &categoryRecord{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Color:        c.Color,
		Icon:         c.Icon,
		SortOrder:    c.SortOrder,
		IsActive:     c.IsActive,
		CreatedAtUtc: c.CreatedAt,
		UpdatedAtUtc: c.UpdatedAt,
	}
}

func (r *categoryRecord) toModel() *category.Category {
	return &category.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Icon:        r.Icon,
		SortOrder:   r.SortOrder,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAtUtc.UTC(),
		UpdatedAt:   utcPtr(r.UpdatedAtUtc),
		TaskCount:   r.TaskCount,
	}
}

type taskRecord struct {
	ID           uuid.UUID  `gorm:"type:text;primaryKey"`
	Title        string     `gorm:"size:200;not null"`
	Description  *string    `gorm:"size:1000"`
	IsDone       bool       `gorm:"not null;default:false;index:idx_tasks_is_done"`
	CategoryID   uuid.UUID  `gorm:"type:text;not null;index:idx_tasks_category_id"`
	CreatedAtUtc time.Time  `gorm:"column:created_at_utc;not null"`
	UpdatedAtUtc *time.Time `gorm:"column:updated_at_utc;index:idx_tasks_updated_at"`

	Category *categoryRecord `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`

	CategoryName  string  `gorm:"->;-:migration"`
	CategoryColor *string `gorm:"->;-:migration"`
}

func (taskRecord) TableName() string { return "tasks" }

func newTaskRecord(t *task.Task) *taskRecord {
	return &taskRecord{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		IsDone:       t.IsDone,
		CategoryID:   t.CategoryID,
		CreatedAtUtc: t.CreatedAt,
		UpdatedAtUtc: t.UpdatedAt,
	}
}

func (r *taskRecord) toModel() *task.Task {
	return &task.Task{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		IsDone:        r.IsDone,
		CategoryID:    r.CategoryID,
		CreatedAt:     r.CreatedAtUtc.UTC(),
		UpdatedAt:     utcPtr(r.UpdatedAtUtc),
		CategoryName:  r.CategoryName,
		CategoryColor: r.CategoryColor,
	}
}

type habitRecord struct {
	ID           uuid.UUID  `gorm:"type:text;primaryKey"`
	Name         string     `gorm:"size:200;not null"`
	Description  *string    `gorm:"size:500"`
	Color        string     `gorm:"size:7;not null"`
	Icon         string     `gorm:"size:50;not null"`
	Type         int        `gorm:"not null;default:0"`
	Unit         *string    `gorm:"size:50"`
	TargetValue  *int       `gorm:"column:target_value"`
	IsActive     bool       `gorm:"not null;index:idx_habits_active_sort,priority:1"`
	SortOrder    int        `gorm:"not null;default:0;index:idx_habits_active_sort,priority:2"`
	CreatedAtUtc time.Time  `gorm:"column:created_at_utc;not null"`
	UpdatedAtUtc *time.Time `gorm:"column:updated_at_utc"`
}

func (habitRecord) TableName() string { return "habits" }

func newHabitRecord(h *habit.Habit) *habitRecord {
	return &habitRecord{
		ID:           h.ID,
		Name:         h.Name,
		Description:  h.Description,
		Color:        h.Color,
		Icon:         h.Icon,
		Type:         int(h.Type),
		Unit:         h.Unit,
		TargetValue:  h.TargetValue,
		IsActive:     h.IsActive,
		SortOrder:    h.SortOrder,
		CreatedAtUtc: h.CreatedAt,
		UpdatedAtUtc: h.UpdatedAt,
	}
}

func (r *habitRecord) toModel() *habit.Habit {
	return &habit.Habit{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Icon:        r.Icon,
		Type:        habit.Type(r.Type),
		Unit:        r.Unit,
		TargetValue: r.TargetValue,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
		CreatedAt:   r.CreatedAtUtc.UTC(),
		UpdatedAt:   utcPtr(r.UpdatedAtUtc),
		Entries:     []*habit.Entry{},
	}
}

// habitEntryRecord keeps the date as YYYY-MM-DD text so range filters
// compare lexically.
type habitEntryRecord struct {
	ID           uuid.UUID  `gorm:"type:text;primaryKey"`
	HabitID      uuid.UUID  `gorm:"type:text;not null;uniqueIndex:uq_habit_entries_habit_date,priority:1"`
	Date         string     `gorm:"size:10;not null;uniqueIndex:uq_habit_entries_habit_date,priority:2;index:idx_habit_entries_date"`
	IsCompleted  bool       `gorm:"not null;default:false"`
	Value        *int       `gorm:"column:value"`
	Notes        *string    `gorm:"size:500"`
	CreatedAtUtc time.Time  `gorm:"column:created_at_utc;not null"`
	UpdatedAtUtc *time.Time `gorm:"column:updated_at_utc"`

	Habit *habitRecord `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE"`
}

func (habitEntryRecord) TableName() string { return "habit_entries" }

func newHabitEntryRecord(e *habit.Entry) *habitEntryRecord {
	return &habitEntryRecord{
		ID:           e.ID,
		HabitID:      e.HabitID,
		Date:         e.Date.String(),
		IsCompleted:  e.IsCompleted,
		Value:        e.Value,
		Notes:        e.Notes,
		CreatedAtUtc: e.CreatedAt,
		UpdatedAtUtc: e.UpdatedAt,
	}
}

func (r *habitEntryRecord) toModel() (*habit.Entry, error) {
	day, err := habit.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &habit.Entry{
		ID:          r.ID,
		HabitID:     r.HabitID,
		Date:        day,
		IsCompleted: r.IsCompleted,
		Value:       r.Value,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAtUtc.UTC(),
		UpdatedAt:   utcPtr(r.UpdatedAtUtc),
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
