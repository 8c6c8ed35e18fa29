package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	IsDone      bool       `json:"isDone" db:"is_done"`
	CategoryID  uuid.UUID  `json:"categoryId" db:"category_id"`
	CreatedAt   time.Time  `json:"createdAtUtc" db:"created_at_utc"`
	UpdatedAt   *time.Time `json:"updatedAtUtc,omitempty" db:"updated_at_utc"`

	// filled from the owning category on read
	CategoryName  string  `json:"categoryName" db:"-"`
	CategoryColor *string `json:"categoryColor,omitempty" db:"-"`
}

// LastModified is UpdatedAt, or CreatedAt for never-updated tasks.
func (t *Task) LastModified() time.Time {
	if t.UpdatedAt != nil {
		return *t.UpdatedAt
	}
	return t.CreatedAt
}

// Filter describes one page of the task list.
type Filter struct {
	IsDone     *bool
	Search     string
	CategoryID *uuid.UUID
	Page       int
	PageSize   int
}

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Normalize applies the paging defaults and bounds.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}
