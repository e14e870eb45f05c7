package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves queued messages, then blocks until the context ends
// or returns fetchErr if set.
type fakeReader struct {
	queue     []kafkago.Message
	fetchErr  error
	committed []int64
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.queue) > 0 {
		m := f.queue[0]
		f.queue = f.queue[1:]
		return m, nil
	}
	if f.fetchErr != nil {
		return kafkago.Message{}, f.fetchErr
	}
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error { return nil }

func newTestConsumer(reader messageReader, handler Handler) *Consumer {
	return &Consumer{
		reader:  reader,
		topic:   "rockfall.events",
		group:   "test",
		handler: handler,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestConsumer_CommitsOnlyHandledMessages(t *testing.T) {
	reader := &fakeReader{queue: []kafkago.Message{
		{Offset: 1, Key: []byte("a"), Headers: []kafkago.Header{{Key: "event_type", Value: []byte("rockfall.assessment.completed")}}},
		{Offset: 2, Key: []byte("poison")},
		{Offset: 3, Key: []byte("b")},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	var seen []string
	c := newTestConsumer(reader, func(_ context.Context, msg Message) error {
		seen = append(seen, string(msg.Key))
		if string(msg.Key) == "poison" {
			return errors.New("cannot decode")
		}
		if string(msg.Key) == "b" {
			cancel()
		}
		return nil
	})

	require.NoError(t, c.Start(ctx))
	assert.Equal(t, []string{"a", "poison", "b"}, seen)
	assert.Equal(t, []int64{1, 3}, reader.committed)
}

func TestConsumer_FetchError(t *testing.T) {
	c := newTestConsumer(&fakeReader{fetchErr: io.ErrUnexpectedEOF}, func(context.Context, Message) error { return nil })

	err := c.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestNewConsumer_RequiresGroup(t *testing.T) {
	_, err := NewConsumer(Config{Brokers: []string{"k1:9092"}}, "rockfall.events", nil, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consumer group")
}

func TestFromKafka(t *testing.T) {
	msg := fromKafka(kafkago.Message{
		Key:     []byte("k"),
		Value:   []byte(`{}`),
		Headers: []kafkago.Header{{Key: "traceparent", Value: []byte("00-abc")}},
	})
	assert.Equal(t, "k", string(msg.Key))
	assert.Equal(t, map[string]string{"traceparent": "00-abc"}, msg.Headers)
}
