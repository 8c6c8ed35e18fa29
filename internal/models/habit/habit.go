package habit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultColor = "#3B82F6"
	DefaultIcon  = "target"
)

// Type decides how an entry is read: a tick for boolean habits, a quantity
// against TargetValue for numeric ones. Stored as 0/1.
type Type int

const (
	TypeBoolean Type = 0
	TypeNumeric Type = 1
)

func (t Type) IsValid() bool {
	return t == TypeBoolean || t == TypeNumeric
}

func (t Type) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeNumeric:
		return "numeric"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func (t Type) MarshalJSON() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid habit type %d", int(t))
	}
	return json.Marshal(int(t))
}

// UnmarshalJSON accepts both the names and the numeric values.
func (t *Type) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "boolean":
			*t = TypeBoolean
		case "numeric":
			*t = TypeNumeric
		default:
			return fmt.Errorf("unknown habit type %q", name)
		}
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("habit type must be a string or an integer: %w", err)
	}
	if !Type(n).IsValid() {
		return fmt.Errorf("unknown habit type %d", n)
	}
	*t = Type(n)
	return nil
}

type Habit struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	Color       string     `json:"color" db:"color"`
	Icon        string     `json:"icon" db:"icon"`
	Type        Type       `json:"type" db:"type"`
	Unit        *string    `json:"unit,omitempty" db:"unit"`
	TargetValue *int       `json:"targetValue,omitempty" db:"target_value"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	SortOrder   int        `json:"sortOrder" db:"sort_order"`
	CreatedAt   time.Time  `json:"createdAtUtc" db:"created_at_utc"`
	UpdatedAt   *time.Time `json:"updatedAtUtc,omitempty" db:"updated_at_utc"`

	// Entries holds only the entries of the requested week.
	Entries []*Entry `json:"weeklyEntries" db:"-"`
}

// Normalize drops the numeric-only fields of boolean habits.
func (h *Habit) Normalize() {
	if h.Type == TypeBoolean {
		h.Unit = nil
		h.TargetValue = nil
	}
}

type Entry struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	HabitID     uuid.UUID  `json:"habitId" db:"habit_id"`
	Date        Date       `json:"date" db:"date"`
	IsCompleted bool       `json:"isCompleted" db:"is_completed"`
	Value       *int       `json:"value,omitempty" db:"value"`
	Notes       *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time  `json:"createdAtUtc" db:"created_at_utc"`
	UpdatedAt   *time.Time `json:"updatedAtUtc,omitempty" db:"updated_at_utc"`
}

// Filter selects habits and the window of entries attached to them.
type Filter struct {
	IsActive  *bool
	WeekStart Date
}

func (f Filter) WeekEnd() Date {
	return f.WeekStart.AddDays(6)
}
