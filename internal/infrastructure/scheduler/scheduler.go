// Package scheduler runs the monitoring sweep on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/minesafe/rockfall/internal/application/usecase"
)

// Sweeper is the job the scheduler runs.
type Sweeper interface {
	Execute(ctx context.Context) (usecase.SweepResult, error)
}

// Scheduler triggers a Sweeper on a cron spec. A run that is still in
// progress when the next one is due causes that tick to be skipped.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	logger  *slog.Logger

	sweeps metric.Int64Counter
	tracer trace.Tracer
}

// New creates a Scheduler. Each run is bounded by timeout.
func New(sweeper Sweeper, timeout time.Duration, meter metric.Meter, logger *slog.Logger) (*Scheduler, error) {
	cronLogger := cronLogAdapter{logger: logger}
	sweeps, err := meter.Int64Counter("rockfall_monitor_sweeps_total",
		metric.WithDescription("Scheduled monitoring sweeps, by outcome."))
	if err != nil {
		return nil, fmt.Errorf("create sweep counter: %w", err)
	}

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		sweeper: sweeper,
		timeout: timeout,
		logger:  logger,
		sweeps:  sweeps,
		tracer:  otel.Tracer("rockfall-scheduler"),
	}, nil
}

// Schedule registers the sweep under spec, which accepts standard five
// field expressions and descriptors such as "@every 5m".
func (s *Scheduler) Schedule(spec string) error {
	id, err := s.cron.AddFunc(spec, func() { s.run(context.Background()) })
	if err != nil {
		return fmt.Errorf("add monitoring schedule %q: %w", spec, err)
	}
	s.logger.Info("monitoring schedule added", slog.String("spec", spec), slog.Int("entry_id", int(id)))
	return nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
		s.logger.Info("scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timeout")
		return ctx.Err()
	}
}

func (s *Scheduler) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "scheduler.monitor_sweep")
	defer span.End()

	start := time.Now()

	result, err := s.sweeper.Execute(ctx)
	if err != nil {
		s.sweeps.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failed")))
		span.RecordError(err)
		s.logger.Error("monitoring sweep failed", slog.String("error", err.Error()))
		return
	}

	s.sweeps.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
	span.SetAttributes(attribute.Int("sweep.assessed", result.Assessed))
	s.logger.Info("monitoring sweep completed",
		slog.Int("assessed", result.Assessed),
		slog.Int("high", result.High),
		slog.Int("failed", result.Failed),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
}

// cronLogAdapter sends cron's internal logging to slog.
type cronLogAdapter struct {
	logger *slog.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Debug("cron: "+msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...any) {
	a.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
