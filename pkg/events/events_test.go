package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/pkg/config"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewPublisherWithoutBrokersIsNoop(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{})
	_, ok := p.(NoopPublisher)
	assert.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), DecisionEvent{}))

	_, ok = NewPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}).(*KafkaPublisher)
	assert.True(t, ok)
}

func TestKafkaPublisherKeysByArtifact(t *testing.T) {
	writer := &recordingWriter{}
	p := &KafkaPublisher{writer: writer}
	at := time.Date(2024, time.May, 12, 10, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), DecisionEvent{
		Kind:       "monthly_report",
		ArtifactID: "report-1",
		Transition: "approve",
		Status:     "APPROVED",
		Final:      true,
		OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "report-1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "monthly_report", string(msg.Headers[0].Value))

	var decoded DecisionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.True(t, decoded.Final)
	assert.Equal(t, "approve", decoded.Transition)

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherWrapsWriteErrors(t *testing.T) {
	cause := errors.New("broker unavailable")
	p := &KafkaPublisher{writer: &recordingWriter{err: cause}}

	err := p.Publish(context.Background(), DecisionEvent{ArtifactID: "x"})
	assert.ErrorIs(t, err, cause)
}
