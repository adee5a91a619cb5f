package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
)

type habitRepository struct {
	pool *pgxpool.Pool
}

// NewHabitRepository creates a new PostgreSQL habit repository
func NewHabitRepository(pool *pgxpool.Pool) repository.HabitRepository {
	return &habitRepository{pool: pool}
}

func (r *habitRepository) Create(ctx context.Context, habit *entity.Habit) error {
	query := `
		INSERT INTO habit (id, user_id, title, time_of_day, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		habit.ID, habit.UserID, habit.Title, toPgTime(habit.TimeOfDay), habit.CreatedAt,
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
		WHERE id = $1 AND user_id = $2
	`

	habit, err := scanHabit(r.pool.QueryRow(ctx, query, habitID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("habit: %w", domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	return habit, nil
}

func (r *habitRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Habit, error) {
	query := `
		SELECT id, user_id, title, time_of_day, created_at
		FROM habit
		WHERE user_id = $1
		ORDER BY time_of_day, title
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}
	defer rows.Close()

	var habits []*entity.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return habits, nil
}

func (r *habitRepository) Update(ctx context.Context, habit *entity.Habit) error {
	query := `UPDATE habit SET title = $1, time_of_day = $2 WHERE id = $3 AND user_id = $4`

	result, err := r.pool.Exec(ctx, query, habit.Title, toPgTime(habit.TimeOfDay), habit.ID, habit.UserID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("habit: %w", domainerrors.ErrNotFound)
	}

	return nil
}

func (r *habitRepository) Delete(ctx context.Context, habitID, userID uuid.UUID) error {
	query := `DELETE FROM habit WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, habitID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("habit: %w", domainerrors.ErrNotFound)
	}

	return nil
}

func scanHabit(row pgx.Row) (*entity.Habit, error) {
	var (
		habit entity.Habit
		at    pgtype.Time
	)
	if err := row.Scan(&habit.ID, &habit.UserID, &habit.Title, &at, &habit.CreatedAt); err != nil {
		return nil, err
	}
	habit.TimeOfDay = fromPgTime(at)
	return &habit, nil
}
