// Package events publishes entity change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

type Event struct {
	Entity string    `json:"entity"`
	Action Action    `json:"action"`
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
	Data   any       `json:"data,omitempty"`
}

// Key is the message key: <entity>.<action>.<id>.
func (e Event) Key() string {
	return fmt.Sprintf("%s.%s.%s", e.Entity, e.Action, e.ID)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Kafka struct {
	writer messageWriter
}

// NewKafkaWriter builds a synchronous writer. Publish runs inside the request,
// so a batch is flushed after at most BatchTimeout instead of the 1s default.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{writer: NewKafkaWriter(brokers, topic)}
}

func (k *Kafka) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", e.Key(), err)
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.Key()), Value: value}); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", e.Key(), err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

// Emit publishes e and logs instead of returning a failure.
func Emit(ctx context.Context, p Publisher, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	if err := p.Publish(ctx, e); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("event", e.Key()).Msg("event not published")
	}
}
