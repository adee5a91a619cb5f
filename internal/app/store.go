package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"habit-tracker/internal/config"
	"habit-tracker/internal/domain/repository"
	infradb "habit-tracker/internal/infrastructure/db"
	"habit-tracker/internal/infrastructure/postgres"
	"habit-tracker/internal/infrastructure/sqlite"
)

// Store is the repository set of the configured database driver
type Store struct {
	Users  repository.UserRepository
	Habits repository.HabitRepository
	Tasks  repository.DailyTaskRepository

	runner *infradb.Runner
	ping   func(ctx context.Context) error
	close  func()
}

// OpenStore connects to the configured database. Call Migrate before first use.
func OpenStore(ctx context.Context, cfg *config.DatabaseConfig, log zerolog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := infradb.NewPostgresPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return newPostgresStore(pool, log), nil
	case config.DriverSQLite:
		sqlDB, err := infradb.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return newSQLiteStore(sqlDB, log), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func newPostgresStore(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{
		Users:  postgres.NewUserRepository(pool),
		Habits: postgres.NewHabitRepository(pool),
		Tasks:  postgres.NewDailyTaskRepository(pool),
		runner: infradb.NewPostgresRunner(pool, log),
		ping:   pool.Ping,
		close:  pool.Close,
	}
}

func newSQLiteStore(sqlDB *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		Users:  sqlite.NewUserRepository(sqlDB),
		Habits: sqlite.NewHabitRepository(sqlDB),
		Tasks:  sqlite.NewDailyTaskRepository(sqlDB),
		runner: infradb.NewSQLiteRunner(sqlDB, log),
		ping:   sqlDB.PingContext,
		close:  func() { _ = sqlDB.Close() },
	}
}

// Migrate applies pending migrations and returns how many ran
func (s *Store) Migrate(ctx context.Context) (int, error) {
	return s.runner.Migrate(ctx)
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the connection pool
func (s *Store) Close() {
	s.close()
}
