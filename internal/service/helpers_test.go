package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
	"habit-tracker/internal/infrastructure/db"
	"habit-tracker/internal/infrastructure/memory"
	"habit-tracker/internal/infrastructure/sqlite"
	"habit-tracker/pkg/hash"
	"habit-tracker/pkg/jwt"
)

type testEnv struct {
	users  repository.UserRepository
	habits repository.HabitRepository
	tasks  repository.DailyTaskRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if _, err := db.NewSQLiteRunner(sqlDB, zerolog.Nop()).Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return &testEnv{
		users:  sqlite.NewUserRepository(sqlDB),
		habits: sqlite.NewHabitRepository(sqlDB),
		tasks:  sqlite.NewDailyTaskRepository(sqlDB),
	}
}

func (e *testEnv) taskService() *taskService {
	return NewTaskService(e.users, e.habits, e.tasks, nil, zerolog.Nop()).(*taskService)
}

func (e *testEnv) userService() *userService {
	provisioner := NewProvisioner(e.habits)
	return NewUserService(
		e.users,
		memory.NewSessionStorage(),
		jwt.NewTokenManager("test-secret", time.Hour, "habit-tracker"),
		nil,
		zerolog.Nop(),
		WithUserCreatedHook(provisioner.Provision),
		WithPasswordHasher(func(p string) (string, error) { return hash.HashPasswordWithCost(p, bcrypt.MinCost) }),
	).(*userService)
}

func (e *testEnv) newUser(t *testing.T, username string) *entity.User {
	t.Helper()
	user := &entity.User{ID: uuid.New(), Username: username, PasswordHash: "x", CreatedAt: time.Now().UTC()}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) newHabit(t *testing.T, user *entity.User, title string, hour, minute int) *entity.Habit {
	t.Helper()
	habit := entity.NewHabit(user.ID, title, entity.NewTimeOfDay(hour, minute))
	if err := e.habits.Create(context.Background(), habit); err != nil {
		t.Fatalf("create habit %s: %v", title, err)
	}
	return habit
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func findTask(t *testing.T, tasks []*entity.DailyTask, title string) *entity.DailyTask {
	t.Helper()
	for _, task := range tasks {
		if task.HabitTitle == title {
			return task
		}
	}
	t.Fatalf("no task for habit %q", title)
	return nil
}
