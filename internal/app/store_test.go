package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"habit-tracker/internal/config"
	"habit-tracker/internal/infrastructure/memory"
)

func TestOpenStoreUnsupportedDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.DatabaseConfig{Driver: "mysql"}, zerolog.Nop())
	if err == nil || !strings.Contains(err.Error(), `unsupported database driver "mysql"`) {
		t.Errorf("OpenStore() error = %v, want unsupported driver", err)
	}
}

func TestNewServicesProvisionsDefaultHabits(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "habits.db")
	cfg.JWT.Secret = "test-secret"

	store, err := OpenStore(ctx, &cfg.Database, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(store.Close)

	if _, err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	services := NewServices(store, cfg, memory.NewSessionStorage(), nil, zerolog.Nop())

	user, err := services.Users.Register(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	habits, err := services.Habits.ListHabits(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListHabits() error = %v", err)
	}
	if len(habits) != 4 {
		t.Fatalf("len(habits) = %d, want 4", len(habits))
	}
	if got := habits[0].Title; got != "Wake up at a specific morning time" {
		t.Errorf("habits[0].Title = %q, want the wake-up habit", got)
	}

	auth, err := services.Users.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	userID, _, err := services.Users.ValidateToken(ctx, auth.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if userID != user.ID {
		t.Errorf("ValidateToken() user = %v, want %v", userID, user.ID)
	}
}
