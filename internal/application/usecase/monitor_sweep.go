package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
)

// SweepResult summarizes one monitoring pass.
type SweepResult struct {
	Assessed int
	High     int
	Failed   int
}

// MonitorSweep re-assesses every active mine in the catalog.
type MonitorSweep struct {
	selectMine *SelectMine
	metrics    Metrics
	logger     *slog.Logger
}

// NewMonitorSweep creates a new MonitorSweep use case.
func NewMonitorSweep(selectMine *SelectMine, metrics Metrics, logger *slog.Logger) *MonitorSweep {
	return &MonitorSweep{selectMine: selectMine, metrics: metrics, logger: logger}
}

// Execute runs one sweep. A failing mine is logged and counted; it does
// not stop the sweep. Only a catalog failure is returned.
func (uc *MonitorSweep) Execute(ctx context.Context) (SweepResult, error) {
	ctx, span := tracer.Start(ctx, "usecase.monitor_sweep")
	defer span.End()

	mines, err := uc.selectMine.catalog.Search(ctx, "")
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list mines: %w", err)
	}

	var result SweepResult
	for _, mine := range mines {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if !mine.IsActive() {
			continue
		}

		_, assessment, err := uc.selectMine.selectMine(ctx, mine)
		if err != nil {
			result.Failed++
			uc.logger.Error("monitoring sweep failed for mine",
				slog.String("mine_id", mine.ID()),
				slog.String("error", err.Error()),
			)
			continue
		}

		result.Assessed++
		if assessment.IsHigh() {
			result.High++
		}
	}

	span.SetAttributes(
		attribute.Int("sweep.assessed", result.Assessed),
		attribute.Int("sweep.high", result.High),
		attribute.Int("sweep.failed", result.Failed),
	)
	uc.metrics.SweepCompleted(ctx, result.Assessed, result.Failed)

	return result, nil
}
