package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/config"
	"habit-tracker/internal/domain/entity"
)

// Set REDIS_TEST_ADDR (e.g. localhost:6379) to run against a real server
func TestSessionStorage(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis integration test")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, &config.RedisConfig{Addr: addr, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	store := NewSessionStorage(client)
	session := &entity.Session{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().Add(time.Minute),
	}

	if err := store.Set(ctx, session); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != session.UserID {
		t.Errorf("Get().UserID = %v, want %v", got.UserID, session.UserID)
	}

	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, session.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
}
