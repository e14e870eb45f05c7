package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/pkg/events"
	"github.com/minesafe/rockfall/pkg/kafka"
)

// Producer is the subset of *kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...kafka.Message) error
}

// KafkaPublisher implements port.EventPublisher using Kafka. Each event is
// written as a JSON envelope keyed by its aggregate ID.
type KafkaPublisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

var _ port.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a new Kafka event publisher.
func NewKafkaPublisher(producer Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish sends domain events to Kafka in one batch.
func (p *KafkaPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		msg, err := toMessage(ctx, evt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.producer.Publish(ctx, p.topic, msgs...); err != nil {
		return fmt.Errorf("failed to publish %d events: %w", len(msgs), err)
	}

	for _, evt := range evts {
		p.logger.Debug("event published",
			slog.String("event_type", evt.EventType()),
			slog.String("aggregate_id", evt.AggregateID()),
			slog.String("topic", p.topic),
		)
	}
	return nil
}

func toMessage(ctx context.Context, evt events.DomainEvent) (kafka.Message, error) {
	env, err := events.NewEnvelope(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to build envelope: %w", err)
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event %s: %w", evt.EventType(), err)
	}

	headers := map[string]string{
		"content-type": "application/json",
		"event-type":   env.EventType,
		"event-id":     env.ID.String(),
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))

	return kafka.Message{
		Key:     []byte(env.AggregateID),
		Value:   payload,
		Headers: headers,
	}, nil
}

// LogPublisher writes events to the log instead of a broker. It is used
// when no Kafka brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ port.EventPublisher = (*LogPublisher)(nil)

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs each event.
func (p *LogPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	for _, evt := range evts {
		p.logger.Info("domain event",
			slog.String("event_type", evt.EventType()),
			slog.String("aggregate_type", evt.AggregateType()),
			slog.String("aggregate_id", evt.AggregateID()),
		)
	}
	return nil
}
