package usecase

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
)

var (
	// ErrInvalidArgument marks a request the caller must correct.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFailedPrecondition marks a request that is valid but cannot run in
	// the current state, such as alerting a mine that has no assessment yet.
	ErrFailedPrecondition = errors.New("failed precondition")
)

var tracer = otel.Tracer("github.com/minesafe/rockfall/internal/application/usecase")

// Metrics receives the outcome counters of the use cases.
type Metrics interface {
	AssessmentRecorded(ctx context.Context, model, level string, probability int)
	AlertSettled(ctx context.Context, channel, status string)
	SweepCompleted(ctx context.Context, assessed, failed int)
}

// NopMetrics returns a Metrics that discards everything.
func NopMetrics() Metrics {
	return nopMetrics{}
}

type nopMetrics struct{}

func (nopMetrics) AssessmentRecorded(context.Context, string, string, int) {}
func (nopMetrics) AlertSettled(context.Context, string, string)            {}
func (nopMetrics) SweepCompleted(context.Context, int, int)                {}
