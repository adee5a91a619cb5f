package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
)

type habitRepository struct {
	db *sql.DB
}

// NewHabitRepository creates a new SQLite habit repository
func NewHabitRepository(db *sql.DB) repository.HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) Create(ctx context.Context, habit *entity.Habit) error {
	query := `
		INSERT INTO habit (id, user_id, title, time_of_day, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		habit.ID.String(), habit.UserID.String(), habit.Title, habit.TimeOfDay.String(), formatTimestamp(habit.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}

	return nil
}

func (r *habitRepository) GetByIDAndUserID(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	query := `
		SELECT id, user_id, title, time_of_day, created_at
		FROM habit
		WHERE id = ? AND user_id = ?
	`

	habit, err := scanHabit(r.db.QueryRowContext(ctx, query, habitID.String(), userID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("habit: %w", domainerrors.ErrNotFound)
		}
		return nil, err
	}

	return habit, nil
}

func (r *habitRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Habit, error) {
	query := `
		SELECT id, user_id, title, time_of_day, created_at
		FROM habit
		WHERE user_id = ?
		ORDER BY time_of_day, title
	`

	rows, err := r.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}
	defer rows.Close()

	var habits []*entity.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return habits, nil
}

func (r *habitRepository) Update(ctx context.Context, habit *entity.Habit) error {
	query := `UPDATE habit SET title = ?, time_of_day = ? WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		habit.Title, habit.TimeOfDay.String(), habit.ID.String(), habit.UserID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	return expectOne(result, "habit")
}

func (r *habitRepository) Delete(ctx context.Context, habitID, userID uuid.UUID) error {
	query := `DELETE FROM habit WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, habitID.String(), userID.String())
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	return expectOne(result, "habit")
}

func scanHabit(row scanner) (*entity.Habit, error) {
	var (
		habit     entity.Habit
		at        string
		createdAt string
	)
	if err := row.Scan(&habit.ID, &habit.UserID, &habit.Title, &at, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan habit: %w", err)
	}

	var err error
	if habit.TimeOfDay, err = entity.ParseTimeOfDay(at); err != nil {
		return nil, err
	}
	if habit.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return &habit, nil
}

// expectOne maps a zero-row write to ErrNotFound
func expectOne(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domainerrors.ErrNotFound)
	}
	return nil
}
