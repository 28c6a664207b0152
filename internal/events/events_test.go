package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafka_Publish(t *testing.T) {
	w := &fakeWriter{}
	k := &Kafka{writer: w}

	err := k.Publish(context.Background(), Event{Entity: "order", Action: Created, ID: "o1", Data: map[string]string{"status": "Pending"}})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order.created.o1", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "order", got["entity"])
	assert.Equal(t, "created", got["action"])
	assert.Equal(t, "Pending", got["data"].(map[string]any)["status"])
}

func TestEmit_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	k := &Kafka{writer: &fakeWriter{err: errors.New("broker down")}}

	Emit(ctx, k, Event{Entity: "customer", Action: Deleted, ID: "c1"})

	assert.Contains(t, buf.String(), "customer.deleted.c1")
	assert.Contains(t, buf.String(), "broker down")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), Event{}))
	assert.NoError(t, Noop{}.Close())
}

func TestNewKafkaWriter_FlushesWithinRequest(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "waterx-events")
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "waterx-events", w.Topic)
	assert.LessOrEqual(t, w.BatchTimeout, 50*time.Millisecond)
	assert.False(t, w.Async)
}
