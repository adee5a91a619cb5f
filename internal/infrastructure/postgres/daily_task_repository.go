package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
)

const taskColumns = `
	t.id, t.habit_id, t.user_id, t.date, t.is_done, t.created_at, h.title, h.time_of_day
`

type dailyTaskRepository struct {
	pool *pgxpool.Pool
}

// NewDailyTaskRepository creates a new PostgreSQL daily task repository
func NewDailyTaskRepository(pool *pgxpool.Pool) repository.DailyTaskRepository {
	return &dailyTaskRepository{pool: pool}
}

func (r *dailyTaskRepository) Create(ctx context.Context, task *entity.DailyTask) error {
	query := `
		INSERT INTO daily_task (id, habit_id, user_id, date, is_done, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (habit_id, date) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query,
		task.ID, task.HabitID, task.UserID, entity.Date(task.Date), task.IsDone, task.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("daily task %s: %w", task.Date.Format(entity.DateLayout), domainerrors.ErrConstraintViolation)
		}
		return fmt.Errorf("failed to create daily task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("daily task %s: %w", task.Date.Format(entity.DateLayout), domainerrors.ErrConstraintViolation)
	}

	return nil
}

func (r *dailyTaskRepository) GetByHabitAndDate(ctx context.Context, habitID uuid.UUID, date time.Time) (*entity.DailyTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM daily_task t
		JOIN habit h ON h.id = t.habit_id
		WHERE t.habit_id = $1 AND t.date = $2
	`
	return r.getOne(ctx, query, habitID, entity.Date(date))
}

func (r *dailyTaskRepository) GetByIDAndUserID(ctx context.Context, taskID, userID uuid.UUID) (*entity.DailyTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM daily_task t
		JOIN habit h ON h.id = t.habit_id
		WHERE t.id = $1 AND t.user_id = $2
	`
	return r.getOne(ctx, query, taskID, userID)
}

func (r *dailyTaskRepository) GetByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.DailyTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM daily_task t
		JOIN habit h ON h.id = t.habit_id
		WHERE t.user_id = $1 AND t.date BETWEEN $2 AND $3
		ORDER BY t.date, h.time_of_day, h.title
	`
	return r.getMany(ctx, query, userID, entity.Date(start), entity.Date(end))
}

func (r *dailyTaskRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.DailyTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM daily_task t
		JOIN habit h ON h.id = t.habit_id
		WHERE t.user_id = $1
		ORDER BY t.date, h.time_of_day, h.title
	`
	return r.getMany(ctx, query, userID)
}

func (r *dailyTaskRepository) ToggleDone(ctx context.Context, taskID, userID uuid.UUID) (*entity.DailyTask, error) {
	query := `
		WITH t AS (
			UPDATE daily_task SET is_done = NOT is_done
			WHERE id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT ` + taskColumns + `
		FROM t
		JOIN habit h ON h.id = t.habit_id
	`
	return r.getOne(ctx, query, taskID, userID)
}

func (r *dailyTaskRepository) Delete(ctx context.Context, taskID, userID uuid.UUID) error {
	query := `DELETE FROM daily_task WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete daily task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("daily task: %w", domainerrors.ErrNotFound)
	}

	return nil
}

func (r *dailyTaskRepository) CountByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_done)
		FROM daily_task
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
	`

	var total, completed int
	err := r.pool.QueryRow(ctx, query, userID, entity.Date(start), entity.Date(end)).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count daily tasks: %w", err)
	}

	return total, completed, nil
}

func (r *dailyTaskRepository) getOne(ctx context.Context, query string, args ...any) (*entity.DailyTask, error) {
	task, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("daily task: %w", domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get daily task: %w", err)
	}
	return task, nil
}

func (r *dailyTaskRepository) getMany(ctx context.Context, query string, args ...any) ([]*entity.DailyTask, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.DailyTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily tasks: %w", err)
	}

	return tasks, nil
}

func scanTask(row pgx.Row) (*entity.DailyTask, error) {
	var (
		task entity.DailyTask
		at   pgtype.Time
	)
	err := row.Scan(&task.ID, &task.HabitID, &task.UserID, &task.Date, &task.IsDone, &task.CreatedAt, &task.HabitTitle, &at)
	if err != nil {
		return nil, err
	}
	task.HabitTime = fromPgTime(at)
	return &task, nil
}
