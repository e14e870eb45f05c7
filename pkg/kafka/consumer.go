package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed Kafka message.
type Handler func(ctx context.Context, msg Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads one topic as part of a consumer group. Offsets are
// committed only after the handler succeeds.
type Consumer struct {
	reader  messageReader
	topic   string
	group   string
	handler Handler
	logger  *slog.Logger
}

// NewConsumer creates a Consumer for topic in cfg.ConsumerGroup.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if cfg.ConsumerGroup == "" {
		return nil, errors.New("kafka: consumer group is required")
	}
	mechanism, err := cfg.mechanism()
	if err != nil {
		return nil, err
	}

	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 << 20,
		Dialer: &kafkago.Dialer{
			DualStack:     true,
			TLS:           cfg.tlsConfig(),
			SASLMechanism: mechanism,
		},
	})

	return &Consumer{reader: r, topic: topic, group: cfg.ConsumerGroup, handler: handler, logger: logger}, nil
}

// Start consumes until ctx is done, which is not an error. A message the
// handler rejects stays uncommitted and is redelivered after a rebalance.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("kafka consumer starting", slog.String("topic", c.topic), slog.String("group", c.group))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("kafka: fetch from %s: %w", c.topic, err)
		}
		c.process(ctx, m)
	}
}

func (c *Consumer) process(ctx context.Context, m kafkago.Message) {
	attrs := []any{
		slog.String("topic", m.Topic),
		slog.Int("partition", m.Partition),
		slog.Int64("offset", m.Offset),
	}

	if err := c.handler(ctx, fromKafka(m)); err != nil {
		c.logger.Error("kafka handler failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		c.logger.Error("kafka commit failed", append(attrs, slog.String("error", err.Error()))...)
	}
}

func fromKafka(m kafkago.Message) Message {
	msg := Message{Key: m.Key, Value: m.Value, Headers: make(map[string]string, len(m.Headers))}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

// Close leaves the group and closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("kafka: close reader: %w", err)
	}
	return nil
}
