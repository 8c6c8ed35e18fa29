// Package seed loads the default categories and habits into an empty store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"dayTracker/internal/logger"
	"dayTracker/internal/models/category"
	"dayTracker/internal/models/habit"
	repo "dayTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yml
var defaultsYAML []byte

type Defaults struct {
	CreatedAt  time.Time         `yaml:"created_at"`
	Categories []categoryDefault `yaml:"categories"`
	Habits     []habitDefault    `yaml:"habits"`
}

type categoryDefault struct {
	ID          uuid.UUID `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Color       string    `yaml:"color"`
	Icon        string    `yaml:"icon"`
	SortOrder   int       `yaml:"sort_order"`
}

type habitDefault struct {
	ID          uuid.UUID `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Color       string    `yaml:"color"`
	Icon        string    `yaml:"icon"`
	Type        string    `yaml:"type"`
	Unit        *string   `yaml:"unit"`
	TargetValue *int      `yaml:"target_value"`
	SortOrder   int       `yaml:"sort_order"`
}

type CategoryStore interface {
	List(context.Context, category.Filter) ([]*category.Category, error)
	Create(context.Context, *category.Category) error
}

type HabitStore interface {
	Create(context.Context, *habit.Habit) error
}

// Load parses the embedded defaults.
func Load() (*Defaults, error) {
	return Parse(defaultsYAML)
}

func Parse(data []byte) (*Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing seed data: %w", err)
	}
	d.CreatedAt = d.CreatedAt.UTC()
	return &d, nil
}

func (d *Defaults) CategoryModels() []*category.Category {
	out := make([]*category.Category, 0, len(d.Categories))
	for _, c := range d.Categories {
		out = append(out, &category.Category{
			ID:          c.ID,
			Name:        c.Name,
			Description: optional(c.Description),
			Color:       optional(c.Color),
			Icon:        optional(c.Icon),
			SortOrder:   c.SortOrder,
			IsActive:    true,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out
}

func (d *Defaults) HabitModels() ([]*habit.Habit, error) {
	out := make([]*habit.Habit, 0, len(d.Habits))
	for _, h := range d.Habits {
		t, err := parseType(h.Type)
		if err != nil {
			return nil, fmt.Errorf("habit %s: %w", h.Name, err)
		}
		m := &habit.Habit{
			ID:          h.ID,
			Name:        h.Name,
			Description: optional(h.Description),
			Color:       h.Color,
			Icon:        h.Icon,
			Type:        t,
			Unit:        h.Unit,
			TargetValue: h.TargetValue,
			IsActive:    true,
			SortOrder:   h.SortOrder,
			CreatedAt:   d.CreatedAt,
		}
		m.Normalize()
		out = append(out, m)
	}
	return out, nil
}

// Apply writes the defaults when the category store is empty and reports
// whether it did. Rows that already exist are skipped.
func Apply(ctx context.Context, d *Defaults, categories CategoryStore, habits HabitStore) (bool, error) {
	existing, err := categories.List(ctx, category.Filter{})
	if err != nil {
		return false, fmt.Errorf("checking categories: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug("Seed: Store already has data, skipping", zap.Int("categories", len(existing)))
		return false, nil
	}

	habitModels, err := d.HabitModels()
	if err != nil {
		return false, err
	}

	for _, c := range d.CategoryModels() {
		if err := categories.Create(ctx, c); err != nil && !errors.Is(err, repo.ErrConflict) {
			return false, fmt.Errorf("seeding category %s: %w", c.ID, err)
		}
	}
	for _, h := range habitModels {
		if err := habits.Create(ctx, h); err != nil && !errors.Is(err, repo.ErrConflict) {
			return false, fmt.Errorf("seeding habit %s: %w", h.ID, err)
		}
	}

	logger.Info("Seed: Default data applied",
		zap.Int("categories", len(d.Categories)),
		zap.Int("habits", len(habitModels)))
	return true, nil
}

func parseType(s string) (habit.Type, error) {
	switch s {
	case "boolean":
		return habit.TypeBoolean, nil
	case "numeric":
		return habit.TypeNumeric, nil
	default:
		return 0, fmt.Errorf("unknown habit type %q", s)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
