package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
)

func TestSessionStorage(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStorage()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	session := &entity.Session{ID: uuid.New(), UserID: uuid.New(), CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
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

	now = now.Add(2 * time.Hour)
	if _, err := store.Get(ctx, session.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("Get(expired) error = %v, want ErrNotFound", err)
	}

	expired := &entity.Session{ID: uuid.New(), ExpiresAt: now.Add(-time.Minute)}
	if err := store.Set(ctx, expired); err == nil {
		t.Error("Set(expired) error = nil, want error")
	}

	live := &entity.Session{ID: uuid.New(), ExpiresAt: now.Add(time.Hour)}
	_ = store.Set(ctx, live)
	if err := store.Delete(ctx, live.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, live.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
}
