package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
)

const taskColumns = `
	t.id, t.habit_id, t.user_id, t.date, t.is_done, t.created_at, h.title, h.time_of_day
	FROM daily_task t
	JOIN habit h ON h.id = t.habit_id
`

type dailyTaskRepository struct {
	db *sql.DB
}

// NewDailyTaskRepository creates a new SQLite daily task repository
func NewDailyTaskRepository(db *sql.DB) repository.DailyTaskRepository {
	return &dailyTaskRepository{db: db}
}

func (r *dailyTaskRepository) Create(ctx context.Context, task *entity.DailyTask) error {
	query := `
		INSERT INTO daily_task (id, habit_id, user_id, date, is_done, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (habit_id, date) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		task.ID.String(), task.HabitID.String(), task.UserID.String(),
		formatDate(task.Date), task.IsDone, formatTimestamp(task.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("daily task %s: %w", formatDate(task.Date), domainerrors.ErrConstraintViolation)
		}
		return fmt.Errorf("failed to create daily task: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("daily task %s: %w", formatDate(task.Date), domainerrors.ErrConstraintViolation)
	}

	return nil
}

func (r *dailyTaskRepository) GetByHabitAndDate(ctx context.Context, habitID uuid.UUID, date time.Time) (*entity.DailyTask, error) {
	query := `SELECT ` + taskColumns + ` WHERE t.habit_id = ? AND t.date = ?`
	return r.getOne(ctx, query, habitID.String(), formatDate(date))
}

func (r *dailyTaskRepository) GetByIDAndUserID(ctx context.Context, taskID, userID uuid.UUID) (*entity.DailyTask, error) {
	query := `SELECT ` + taskColumns + ` WHERE t.id = ? AND t.user_id = ?`
	return r.getOne(ctx, query, taskID.String(), userID.String())
}

func (r *dailyTaskRepository) GetByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.DailyTask, error) {
	query := `SELECT ` + taskColumns + `
		WHERE t.user_id = ? AND t.date BETWEEN ? AND ?
		ORDER BY t.date, h.time_of_day, h.title
	`
	return r.getMany(ctx, query, userID.String(), formatDate(start), formatDate(end))
}

func (r *dailyTaskRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.DailyTask, error) {
	query := `SELECT ` + taskColumns + `
		WHERE t.user_id = ?
		ORDER BY t.date, h.time_of_day, h.title
	`
	return r.getMany(ctx, query, userID.String())
}

func (r *dailyTaskRepository) ToggleDone(ctx context.Context, taskID, userID uuid.UUID) (*entity.DailyTask, error) {
	query := `UPDATE daily_task SET is_done = NOT is_done WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, taskID.String(), userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to toggle daily task: %w", err)
	}
	if err := expectOne(result, "daily task"); err != nil {
		return nil, err
	}

	return r.GetByIDAndUserID(ctx, taskID, userID)
}

func (r *dailyTaskRepository) Delete(ctx context.Context, taskID, userID uuid.UUID) error {
	query := `DELETE FROM daily_task WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, taskID.String(), userID.String())
	if err != nil {
		return fmt.Errorf("failed to delete daily task: %w", err)
	}

	return expectOne(result, "daily task")
}

func (r *dailyTaskRepository) CountByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, int, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_done THEN 1 ELSE 0 END), 0)
		FROM daily_task
		WHERE user_id = ? AND date BETWEEN ? AND ?
	`

	var total, completed int
	err := r.db.QueryRowContext(ctx, query, userID.String(), formatDate(start), formatDate(end)).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count daily tasks: %w", err)
	}

	return total, completed, nil
}

func (r *dailyTaskRepository) getOne(ctx context.Context, query string, args ...any) (*entity.DailyTask, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("daily task: %w", domainerrors.ErrNotFound)
		}
		return nil, err
	}
	return task, nil
}

func (r *dailyTaskRepository) getMany(ctx context.Context, query string, args ...any) ([]*entity.DailyTask, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.DailyTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily tasks: %w", err)
	}

	return tasks, nil
}

func scanTask(row scanner) (*entity.DailyTask, error) {
	var (
		task      entity.DailyTask
		date      string
		createdAt string
		at        string
	)
	err := row.Scan(&task.ID, &task.HabitID, &task.UserID, &date, &task.IsDone, &createdAt, &task.HabitTitle, &at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan daily task: %w", err)
	}

	if task.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if task.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if task.HabitTime, err = entity.ParseTimeOfDay(at); err != nil {
		return nil, err
	}
	return &task, nil
}
