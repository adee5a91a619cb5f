package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"habit-tracker/internal/domain/entity"
)

type recordingWriter struct {
	messages []kafka.Message
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishTasksMaterialized(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w, log: zerolog.Nop()}
	userID := uuid.New()

	err := p.PublishTasksMaterialized(context.Background(), userID, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 2)
	if err != nil {
		t.Fatalf("PublishTasksMaterialized() error = %v", err)
	}
	if len(w.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(w.messages))
	}

	msg := w.messages[0]
	if string(msg.Key) != userID.String() {
		t.Errorf("key = %s, want %s", msg.Key, userID)
	}

	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.EventType != EventTasksMaterialized {
		t.Errorf("EventType = %q, want %q", event.EventType, EventTasksMaterialized)
	}

	var payload TasksMaterializedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Date != "2024-01-15" || payload.Created != 2 {
		t.Errorf("payload = %+v, want date 2024-01-15 created 2", payload)
	}
}

func TestPublishUserRegistered(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w, log: zerolog.Nop()}
	user := &entity.User{ID: uuid.New(), Username: "alice", CreatedAt: time.Now().UTC()}

	if err := p.PublishUserRegistered(context.Background(), user); err != nil {
		t.Fatalf("PublishUserRegistered() error = %v", err)
	}

	var event Event
	if err := json.Unmarshal(w.messages[0].Value, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.EventType != EventUserRegistered {
		t.Errorf("EventType = %q, want %q", event.EventType, EventUserRegistered)
	}
	if len(w.messages[0].Headers) != 1 || string(w.messages[0].Headers[0].Value) != EventUserRegistered {
		t.Errorf("headers = %v, want event_type header", w.messages[0].Headers)
	}
}
