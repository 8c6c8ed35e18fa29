package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dayTracker/internal/logger"
	"dayTracker/internal/models"
	"dayTracker/internal/models/habit"
	repo "dayTracker/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type HabitRepo struct {
	pool *pgxpool.Pool
}

var habitColumns = []string{
	"id",
	"name",
	"description",
	"color",
	"icon",
	"type",
	"unit",
	"target_value",
	"is_active",
	"sort_order",
	"created_at_utc",
	"updated_at_utc",
}

func scanHabit(row pgx.Row) (*habit.Habit, error) {
	h := &habit.Habit{}
	var habitType int16
	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.Description,
		&h.Color,
		&h.Icon,
		&habitType,
		&h.Unit,
		&h.TargetValue,
		&h.IsActive,
		&h.SortOrder,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.Type = habit.Type(habitType)
	h.CreatedAt = utc(h.CreatedAt)
	h.UpdatedAt = utcPtr(h.UpdatedAt)
	return h, nil
}

func (r *HabitRepo) List(ctx context.Context, filter habit.Filter) ([]*habit.Habit, error) {
	start := time.Now()
	defer warnIfSlow("list_habits", start)

	query := psql.Select(habitColumns...).
		From("habits").
		OrderBy("sort_order ASC", "name ASC")
	if filter.IsActive != nil {
		query = query.Where(sq.Eq{"is_active": *filter.IsActive})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error("Repository: Failed to list habits", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()

	habits := []*habit.Habit{}
	byID := make(map[uuid.UUID]*habit.Habit)
	ids := []uuid.UUID{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning habit: %w", err)
		}
		h.Entries = []*habit.Entry{}
		habits = append(habits, h)
		byID[h.ID] = h
		ids = append(ids, h.ID)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Row iteration failed", err)
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	if len(ids) == 0 {
		return habits, nil
	}

	entries, err := r.entriesBetween(ctx, ids, filter.WeekStart, filter.WeekEnd())
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if h, ok := byID[e.HabitID]; ok {
			h.Entries = append(h.Entries, e)
		}
	}

	return habits, nil
}

func (r *HabitRepo) entriesBetween(ctx context.Context, ids []uuid.UUID, from, to habit.Date) ([]*habit.Entry, error) {
	query := `SELECT id, habit_id, date, is_completed, value, notes, created_at_utc, updated_at_utc
				FROM habit_entries
				WHERE habit_id = ANY($1) AND date BETWEEN $2 AND $3
				ORDER BY date ASC`

	rows, err := r.pool.Query(ctx, query, ids, from.Time(), to.Time())
	if err != nil {
		logger.Error("Repository: Failed to list habit entries", err)
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	entries := []*habit.Entry{}
	for rows.Next() {
		e := &habit.Entry{}
		var day time.Time
		err := rows.Scan(
			&e.ID,
			&e.HabitID,
			&day,
			&e.IsCompleted,
			&e.Value,
			&e.Notes,
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Date = habit.DateOf(day)
		e.CreatedAt = utc(e.CreatedAt)
		e.UpdatedAt = utcPtr(e.UpdatedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return entries, nil
}

func (r *HabitRepo) GetByID(ctx context.Context, id uuid.UUID) (*habit.Habit, error) {
	sql, args, err := psql.Select(habitColumns...).
		From("habits").
		Where(sq.Expr("id = ?", id)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	h, err := scanHabit(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, repo.ErrNotFound) {
			logger.Error("Repository: Failed to get habit", err, zap.String("habit_id", id.String()))
		}
		return nil, fmt.Errorf("getting habit: %w", err)
	}
	return h, nil
}

func (r *HabitRepo) MaxActiveSortOrder(ctx context.Context) (int, error) {
	var maxOrder int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(sort_order), 0) FROM habits WHERE is_active = TRUE`,
	).Scan(&maxOrder)
	if err != nil {
		logger.Error("Repository: Failed to read max sort order", err)
		return 0, fmt.Errorf("max sort order: %w", err)
	}
	return maxOrder, nil
}

func (r *HabitRepo) Create(ctx context.Context, h *habit.Habit) error {
	start := time.Now()
	defer warnIfSlow("create_habit", start)

	query := `INSERT INTO habits
				(id, name, description, color, icon, type, unit, target_value, is_active, sort_order, created_at_utc)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		h.ID,
		h.Name,
		h.Description,
		h.Color,
		h.Icon,
		int16(h.Type),
		h.Unit,
		h.TargetValue,
		h.IsActive,
		h.SortOrder,
		h.CreatedAt,
	)
	if err != nil {
		logger.Error("Repository: Failed to create habit", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("creating habit: %w", mapError(err))
	}
	return nil
}

func (r *HabitRepo) Update(ctx context.Context, h *habit.Habit, clearEntries bool) error {
	start := time.Now()
	defer warnIfSlow("update_habit", start)

	query := `UPDATE habits
			SET name = $1,
				description = $2,
				color = $3,
				icon = $4,
				type = $5,
				unit = $6,
				target_value = $7,
				is_active = $8,
				updated_at_utc = $9
			WHERE id = $10`

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if clearEntries {
			tag, err := tx.Exec(ctx, `DELETE FROM habit_entries WHERE habit_id = $1`, h.ID)
			if err != nil {
				return err
			}
			logger.Info("Repository: Habit entries cleared",
				zap.String("habit_id", h.ID.String()),
				zap.Int64("deleted", tag.RowsAffected()))
		}

		tag, err := tx.Exec(ctx, query,
			h.Name,
			h.Description,
			h.Color,
			h.Icon,
			int16(h.Type),
			h.Unit,
			h.TargetValue,
			h.IsActive,
			h.UpdatedAt,
			h.ID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
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
	start := time.Now()
	defer warnIfSlow("delete_habit", start)

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM habit_entries WHERE habit_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
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
	start := time.Now()
	defer warnIfSlow("reorder_habits", start)

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return applySortOrders(ctx, tx, "habits", items, at)
	})
	if err != nil {
		return fmt.Errorf("reordering habits: %w", err)
	}
	return nil
}

func (r *HabitRepo) UpsertEntry(ctx context.Context, entry *habit.Entry) error {
	start := time.Now()
	defer warnIfSlow("upsert_habit_entry", start)

	query := `INSERT INTO habit_entries
				(id, habit_id, date, is_completed, value, notes, created_at_utc)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (habit_id, date) DO UPDATE
			SET is_completed = EXCLUDED.is_completed,
				value = EXCLUDED.value,
				notes = EXCLUDED.notes,
				updated_at_utc = EXCLUDED.created_at_utc
			RETURNING id, created_at_utc, updated_at_utc`

	err := r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.HabitID,
		entry.Date.Time(),
		entry.IsCompleted,
		entry.Value,
		entry.Notes,
		entry.CreatedAt,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		err = mapError(err)
		logger.Warn("Repository: Failed to upsert habit entry",
			zap.Error(err),
			zap.String("habit_id", entry.HabitID.String()),
			zap.String("date", entry.Date.String()))
		return fmt.Errorf("upserting entry: %w", err)
	}

	entry.CreatedAt = utc(entry.CreatedAt)
	entry.UpdatedAt = utcPtr(entry.UpdatedAt)
	return nil
}
