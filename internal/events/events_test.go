package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_pharmacy/pkg/logging"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, string, string, Event) error {
	f.calls++
	return errors.New("broker down")
}
func (f *failingPublisher) Close() error { return nil }

func TestEmit_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.IntoContext(context.Background(), logging.NewWithWriter(&buf, "debug"))

	p := &failingPublisher{}
	Emit(ctx, p, TopicProducts, "p1", ProductCreated, map[string]string{"id": "p1"})

	assert.Equal(t, 1, p.calls)
	assert.Contains(t, buf.String(), "event_publish_error")
	assert.Contains(t, buf.String(), "broker down")
}

func TestEmit_NilAndNop(t *testing.T) {
	Emit(context.Background(), nil, TopicUsers, "k", UserRegistered, nil)
	Emit(context.Background(), NopPublisher{}, TopicUsers, "k", UserRegistered, nil)
	require.NoError(t, NopPublisher{}.Close())
}

func TestKafkaPublisher_Integration(t *testing.T) {
	brokers := os.Getenv("KAFKA_TEST_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_TEST_BROKERS not set; skipping kafka integration test")
	}
	list := strings.Split(brokers, ",")
	topic := "pharmacy_test_" + time.Now().Format("150405")

	p := NewKafkaPublisher(list)
	t.Cleanup(func() { _ = p.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	for i := 0; i < 10; i++ {
		err = p.Publish(ctx, topic, "k1", Event{Type: UserRegistered, At: time.Now().UTC()})
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)

	r := kafka.NewReader(kafka.ReaderConfig{Brokers: list, Topic: topic, Partition: 0})
	t.Cleanup(func() { _ = r.Close() })

	msg, err := r.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "k1", string(msg.Key))

	var ev Event
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, UserRegistered, ev.Type)
}
