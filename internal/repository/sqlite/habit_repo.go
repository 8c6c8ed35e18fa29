package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dayTracker/internal/logger"
	"dayTracker/internal/models"
	"dayTracker/internal/models/habit"
	repo "dayTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HabitRepo struct {
	db *gorm.DB
}

func (r *HabitRepo) List(ctx context.Context, filter habit.Filter) ([]*habit.Habit, error) {
	query := r.db.WithContext(ctx).
		Model(&habitRecord{}).
		Order("sort_order ASC").
		Order("name ASC")
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var records []habitRecord
	if err := query.Find(&records).Error; err != nil {
		logger.Error("Repository: Failed to list habits", err)
		return nil, fmt.Errorf("listing habits: %w", err)
	}

	habits := make([]*habit.Habit, 0, len(records))
	byID := make(map[uuid.UUID]*habit.Habit, len(records))
	ids := make([]string, 0, len(records))
	for i := range records {
		h := records[i].toModel()
		habits = append(habits, h)
		byID[h.ID] = h
		ids = append(ids, h.ID.String())
	}
	if len(ids) == 0 {
		return habits, nil
	}

	var entries []habitEntryRecord
	err := r.db.WithContext(ctx).
		Where("habit_id IN ?", ids).
		Where("date BETWEEN ? AND ?", filter.WeekStart.String(), filter.WeekEnd().String()).
		Order("date ASC").
		Find(&entries).Error
	if err != nil {
		logger.Error("Repository: Failed to list habit entries", err)
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	for i := range entries {
		e, err := entries[i].toModel()
		if err != nil {
			return nil, fmt.Errorf("decoding entry %s: %w", entries[i].ID, err)
		}
		if h, ok := byID[e.HabitID]; ok {
			h.Entries = append(h.Entries, e)
		}
	}
	return habits, nil
}

func (r *HabitRepo) GetByID(ctx context.Context, id uuid.UUID) (*habit.Habit, error) {
	var record habitRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error; err != nil {
		err = mapError(err)
		if !errors.Is(err, repo.ErrNotFound) {
			logger.Error("Repository: Failed to get habit", err, zap.String("habit_id", id.String()))
		}
		return nil, fmt.Errorf("getting habit: %w", err)
	}
	return record.toModel(), nil
}

func (r *HabitRepo) MaxActiveSortOrder(ctx context.Context) (int, error) {
	var maxOrder int
	err := r.db.WithContext(ctx).
		Model(&habitRecord{}).
		Where("is_active = ?", true).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&maxOrder).Error
	if err != nil {
		logger.Error("Repository: Failed to read max sort order", err)
		return 0, fmt.Errorf("max sort order: %w", err)
	}
	return maxOrder, nil
}

func (r *HabitRepo) Create(ctx context.Context, h *habit.Habit) error {
	if err := r.db.WithContext(ctx).Create(newHabitRecord(h)).Error; err != nil {
		logger.Error("Repository: Failed to create habit", err)
		return fmt.Errorf("creating habit: %w", mapError(err))
	}
	return nil
}

func (r *HabitRepo) Update(ctx context.Context, h *habit.Habit, clearEntries bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clearEntries {
			res := tx.Where("habit_id = ?", h.ID).Delete(&habitEntryRecord{})
			if res.Error != nil {
				return res.Error
			}
			logger.Info("Repository: Habit entries cleared",
				zap.String("habit_id", h.ID.String()),
				zap.Int64("deleted", res.RowsAffected))
		}

		res := tx.Model(&habitRecord{}).
			Where("id = ?", h.ID).
			Updates(map[string]interface{}{
				"name":           h.Name,
				"description":    h.Description,
				"color":          h.Color,
				"icon":           h.Icon,
				"type":           int(h.Type),
				"unit":           h.Unit,
				"target_value":   h.TargetValue,
				"is_active":      h.IsActive,
				"updated_at_utc": h.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			logger.Error("Repository: Failed to update habit", err)
		}
		return fmt.Errorf("updating habit: %w", mapError(err))
	}
	return nil
}

func (r *HabitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", id).Delete(&habitEntryRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&habitRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			logger.Error("Repository: Failed to delete habit", err)
		}
		return fmt.Errorf("deleting habit: %w", err)
	}
	return nil
}

func (r *HabitRepo) Reorder(ctx context.Context, items []models.SortItem, at time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateSortOrders(tx, &habitRecord{}, items, at)
	})
	if err != nil {
		return fmt.Errorf("reordering habits: %w", err)
	}
	return nil
}

func (r *HabitRepo) UpsertEntry(ctx context.Context, entry *habit.Entry) error {
	record := newHabitEntryRecord(entry)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit("Habit").
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "habit_id"}, {Name: "date"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"is_completed":   record.IsCompleted,
					"value":          record.Value,
					"notes":          record.Notes,
					"updated_at_utc": record.CreatedAtUtc,
				}),
			}).
			Create(record).Error
		if err != nil {
			return err
		}

		var stored habitEntryRecord
		if err := tx.Where("habit_id = ? AND date = ?", record.HabitID, record.Date).Take(&stored).Error; err != nil {
			return err
		}
		record = &stored
		return nil
	})
	if err != nil {
		err = mapError(err)
		logger.Warn("Repository: Failed to upsert habit entry",
			zap.Error(err),
			zap.String("habit_id", entry.HabitID.String()),
			zap.String("date", entry.Date.String()))
		return fmt.Errorf("upserting entry: %w", err)
	}

	stored, err := record.toModel()
	if err != nil {
		return fmt.Errorf("decoding entry: %w", err)
	}
	*entry = *stored
	return nil
}
