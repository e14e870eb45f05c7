// Package telemetry records use case outcomes as OpenTelemetry metrics.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/minesafe/rockfall/internal/application/usecase"
)

// Metrics implements usecase.Metrics with otel instruments.
type Metrics struct {
	assessments metric.Int64Counter
	probability metric.Int64Histogram
	alerts      metric.Int64Counter
	sweeps      metric.Int64Counter
	sweepFailed metric.Int64Counter
}

var _ usecase.Metrics = (*Metrics)(nil)

// NewMetrics registers the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	assessments, err := meter.Int64Counter("rockfall_assessments_total",
		metric.WithDescription("Risk assessments recorded, by model and level."))
	if err != nil {
		return nil, fmt.Errorf("failed to create assessments counter: %w", err)
	}

	probability, err := meter.Int64Histogram("rockfall_risk_probability",
		metric.WithDescription("Distribution of assessed rockfall probability."),
		metric.WithUnit("%"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100))
	if err != nil {
		return nil, fmt.Errorf("failed to create probability histogram: %w", err)
	}

	alerts, err := meter.Int64Counter("rockfall_alerts_total",
		metric.WithDescription("Alerts settled, by channel and delivery status."))
	if err != nil {
		return nil, fmt.Errorf("failed to create alerts counter: %w", err)
	}

	sweeps, err := meter.Int64Counter("rockfall_sweep_mines_total",
		metric.WithDescription("Mines assessed by monitoring sweeps."))
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep counter: %w", err)
	}

	sweepFailed, err := meter.Int64Counter("rockfall_sweep_failures_total",
		metric.WithDescription("Mines a monitoring sweep failed to assess."))
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep failure counter: %w", err)
	}

	return &Metrics{
		assessments: assessments,
		probability: probability,
		alerts:      alerts,
		sweeps:      sweeps,
		sweepFailed: sweepFailed,
	}, nil
}

func (m *Metrics) AssessmentRecorded(ctx context.Context, model, level string, probability int) {
	attrs := metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("level", level),
	)
	m.assessments.Add(ctx, 1, attrs)
	m.probability.Record(ctx, int64(probability), metric.WithAttributes(attribute.String("model", model)))
}

func (m *Metrics) AlertSettled(ctx context.Context, channel, status string) {
	m.alerts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("status", status),
	))
}

func (m *Metrics) SweepCompleted(ctx context.Context, assessed, failed int) {
	m.sweeps.Add(ctx, int64(assessed))
	m.sweepFailed.Add(ctx, int64(failed))
}
