package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"habit-tracker/internal/config"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/service"
)

const (
	EventUserRegistered    = "user.registered"
	EventTasksMaterialized = "tasks.materialized"
)

// Event is the JSON envelope written to the topic
type Event struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// UserRegisteredPayload is the payload of user.registered
type UserRegisteredPayload struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// TasksMaterializedPayload is the payload of tasks.materialized
type TasksMaterializedPayload struct {
	UserID  string `json:"user_id"`
	Date    string `json:"date"`
	Created int    `json:"created"`
}

// messageWriter is the subset of *kafka.Writer the producer needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes domain events to Kafka, keyed by user id
type Producer struct {
	writer messageWriter
	log    zerolog.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg *config.KafkaConfig, log zerolog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("messages", len(messages)).Msg("kafka delivery failed")
			}
		},
	}

	return &Producer{writer: writer, log: log}
}

// PublishUserRegistered publishes a user registration event
func (p *Producer) PublishUserRegistered(ctx context.Context, user *entity.User) error {
	return p.publish(ctx, EventUserRegistered, user.ID, UserRegisteredPayload{
		UserID:    user.ID.String(),
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

// PublishTasksMaterialized publishes the number of tasks created for a user and date
func (p *Producer) PublishTasksMaterialized(ctx context.Context, userID uuid.UUID, date time.Time, created int) error {
	return p.publish(ctx, EventTasksMaterialized, userID, TasksMaterializedPayload{
		UserID:  userID.String(),
		Date:    date.Format(entity.DateLayout),
		Created: created,
	})
}

func (p *Producer) publish(ctx context.Context, eventType string, userID uuid.UUID, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	data, err := json.Marshal(Event{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Payload:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(userID.String()),
		Value: data,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.log.Debug().Str("event_type", eventType).Str("user_id", userID.String()).Msg("event published")
	return nil
}

// Close flushes and closes the Kafka writer
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// NoopPublisher drops events when no brokers are configured
type NoopPublisher struct{}

func (NoopPublisher) PublishUserRegistered(ctx context.Context, user *entity.User) error {
	return nil
}

func (NoopPublisher) PublishTasksMaterialized(ctx context.Context, userID uuid.UUID, date time.Time, created int) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }

var (
	_ service.EventPublisher = (*Producer)(nil)
	_ service.EventPublisher = NoopPublisher{}
)
