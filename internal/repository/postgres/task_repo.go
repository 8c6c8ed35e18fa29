package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dayTracker/internal/logger"
	"dayTracker/internal/models/task"
	repo "dayTracker/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

var taskColumns = []string{
	"t.id",
	"t.title",
	"t.description",
	"t.is_done",
	"t.category_id",
	"t.created_at_utc",
	"t.updated_at_utc",
	"c.name",
	"c.color",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.IsDone,
		&t.CategoryID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CategoryName,
		&t.CategoryColor,
	)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = utc(t.CreatedAt)
	t.UpdatedAt = utcPtr(t.UpdatedAt)
	return t, nil
}

func taskConditions(filter task.Filter) sq.And {
	where := sq.And{}
	if filter.IsDone != nil {
		where = append(where, sq.Eq{"t.is_done": *filter.IsDone})
	}
	if filter.CategoryID != nil {
		where = append(where, sq.Expr("t.category_id = ?", *filter.CategoryID))
	}
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"t.title": pattern},
			sq.ILike{"t.description": pattern},
		})
	}
	return where
}

func (r *TaskRepo) List(ctx context.Context, filter task.Filter) ([]*task.Task, int, error) {
	start := time.Now()
	defer warnIfSlow("list_tasks", start)

	where := taskConditions(filter)

	countSQL, countArgs, err := psql.Select("COUNT(*)").
		From("tasks t").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error("Repository: Failed to count tasks", err, zap.Duration("ms", time.Since(start)))
		return nil, 0, fmt.Errorf("counting tasks: %w", err)
	}

	listSQL, listArgs, err := psql.Select(taskColumns...).
		From("tasks t").
		Join("categories c ON c.id = t.category_id").
		Where(where).
		OrderBy("t.is_done ASC", "COALESCE(t.updated_at_utc, t.created_at_utc) DESC", "t.id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		logger.Error("Repository: Failed to list tasks", err, zap.Duration("ms", time.Since(start)))
		return nil, 0, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Row iteration failed", err)
		return nil, 0, fmt.Errorf("iterating rows: %w", err)
	}

	return tasks, total, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("get_task", start)

	sql, args, err := psql.Select(taskColumns...).
		From("tasks t").
		Join("categories c ON c.id = t.category_id").
		Where(sq.Expr("t.id = ?", id)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	t, err := scanTask(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, repo.ErrNotFound) {
			logger.Error("Repository: Failed to get task", err, zap.String("task_id", id.String()))
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

func (r *TaskRepo) Create(ctx context.Context, t *task.Task) error {
	start := time.Now()
	defer warnIfSlow("create_task", start)

	query := `INSERT INTO tasks
				(id, title, description, is_done, category_id, created_at_utc)
				VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		t.IsDone,
		t.CategoryID,
		t.CreatedAt,
	)
	if err != nil {
		logger.Error("Repository: Failed to create task", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("creating task: %w", mapError(err))
	}
	return nil
}

func (r *TaskRepo) Update(ctx context.Context, t *task.Task) error {
	start := time.Now()
	defer warnIfSlow("update_task", start)

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				is_done = $3,
				category_id = $4,
				updated_at_utc = $5
			WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query,
		t.Title,
		t.Description,
		t.IsDone,
		t.CategoryID,
		t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		logger.Error("Repository: Failed to update task", err)
		return fmt.Errorf("updating task: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer warnIfSlow("delete_task", start)

	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Failed to delete task", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("deleting task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
