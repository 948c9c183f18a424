package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/noah-isme/scholarship-approval-api/pkg/config"
)

// DecisionEvent is published after a workflow transition commits.
type DecisionEvent struct {
	Kind         string    `json:"kind"`
	ArtifactID   string    `json:"artifact_id"`
	Transition   string    `json:"transition"`
	ActorID      string    `json:"actor_id"`
	ActorLevel   string    `json:"actor_level,omitempty"`
	Status       string    `json:"status"`
	CurrentLevel string    `json:"current_level"`
	HistoryID    string    `json:"history_id,omitempty"`
	Final        bool      `json:"final"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher emits decision events.
type Publisher interface {
	Publish(ctx context.Context, event DecisionEvent) error
	Close() error
}

// NewPublisher returns a Kafka publisher, or a noop one when no brokers are configured.
func NewPublisher(cfg config.KafkaConfig) Publisher {
	if len(cfg.Brokers) == 0 {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(cfg)
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, DecisionEvent) error { return nil }

// Close implements Publisher.
func (NoopPublisher) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes decision events keyed by artifact id so events of one
// artifact stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher builds the publisher from config.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	batch := cfg.BatchTimeout
	if batch <= 0 {
		batch = 50 * time.Millisecond
	}
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		RequiredAcks: kafka.RequireOne,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: batch,
	}}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, event DecisionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal decision event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.ArtifactID),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(event.Kind)},
			{Key: "transition", Value: []byte(event.Transition)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write decision event: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
