package category

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	Color       *string    `json:"color,omitempty" db:"color"`
	Icon        *string    `json:"icon,omitempty" db:"icon"`
	SortOrder   int        `json:"sortOrder" db:"sort_order"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"createdAtUtc" db:"created_at_utc"`
	UpdatedAt   *time.Time `json:"updatedAtUtc,omitempty" db:"updated_at_utc"`

	// TaskCount is computed on read, never stored.
	TaskCount int `json:"taskCount" db:"-"`
}

type Filter struct {
	IsActive *bool
}
