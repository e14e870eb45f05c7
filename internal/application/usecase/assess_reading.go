package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/minesafe/rockfall/internal/application/dto"
	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/service"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// AssessReading is the use case for scoring a reading taken at a mine,
// persisting the result and raising an automatic alert when it is High.
type AssessReading struct {
	repo      port.AssessmentRepository
	catalog   port.MineCatalog
	publisher port.EventPublisher
	scorer    service.Scorer
	autoAlert *SendAlert
	metrics   Metrics
	logger    *slog.Logger
}

// NewAssessReading creates a new AssessReading use case. A nil autoAlert
// disables automatic alerting.
func NewAssessReading(
	repo port.AssessmentRepository,
	catalog port.MineCatalog,
	publisher port.EventPublisher,
	scorer service.Scorer,
	autoAlert *SendAlert,
	metrics Metrics,
	logger *slog.Logger,
) *AssessReading {
	return &AssessReading{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		scorer:    scorer,
		autoAlert: autoAlert,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute validates the request, resolves the mine and assesses the reading.
func (uc *AssessReading) Execute(ctx context.Context, req dto.AssessReadingRequest) (dto.AssessmentResponse, error) {
	reading, err := req.ToReading()
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to validate reading: %w", err)
	}

	if req.MineID == "" {
		return dto.AssessmentResponse{}, fmt.Errorf("%w: mine_id is required", ErrInvalidArgument)
	}

	mine, err := uc.catalog.Get(ctx, req.MineID)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to load mine %s: %w", req.MineID, err)
	}

	assessment, err := uc.AssessMine(ctx, mine, reading)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	return dto.FromModel(assessment), nil
}

// AssessMine scores reading for mine with this use case's model.
func (uc *AssessReading) AssessMine(ctx context.Context, mine *model.Mine, reading valueobject.Reading) (*model.RiskAssessment, error) {
	ctx, span := tracer.Start(ctx, "usecase.assess_reading", trace.WithAttributes(
		attribute.String("mine.id", mine.ID()),
		attribute.String("risk.model", uc.scorer.Name()),
	))
	defer span.End()

	// 1. Create the assessment aggregate.
	assessment, err := model.NewRiskAssessment(mine.ID(), reading)
	if err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	// 2. Run risk scoring via the domain service.
	out := uc.scorer.Score(service.RiskInput{
		Reading:    reading,
		MineStatus: mine.Status(),
	})

	// 3. Apply the score to the assessment.
	if err := assessment.Assess(out.Probability, out.Level, out.Factors, uc.scorer.Name()); err != nil {
		return nil, fmt.Errorf("failed to assess reading: %w", err)
	}
	span.SetAttributes(
		attribute.Int("risk.probability", assessment.Probability()),
		attribute.String("risk.level", assessment.Level().String()),
	)

	// 4. Persist the assessment.
	if err := uc.repo.Save(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to save assessment: %w", err)
	}

	// 5. Publish domain events.
	if evts := assessment.DomainEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			return nil, fmt.Errorf("failed to publish events: %w", err)
		}
	}

	uc.metrics.AssessmentRecorded(ctx, assessment.Model(), assessment.Level().String(), assessment.Probability())

	// 6. Evacuation alert. A delivery problem never fails the assessment.
	if assessment.IsHigh() && uc.autoAlert != nil {
		alert, err := uc.autoAlert.RaiseAutomatic(ctx, mine)
		if err != nil {
			uc.logger.Error("failed to raise automatic alert",
				slog.String("mine_id", mine.ID()),
				slog.String("assessment_id", assessment.ID().String()),
				slog.String("error", err.Error()),
			)
		} else {
			uc.logger.Warn("high rockfall risk, automatic alert dispatched",
				slog.String("mine_id", mine.ID()),
				slog.Int("probability", assessment.Probability()),
				slog.String("alert_status", alert.Status().String()),
			)
		}
	}

	return assessment, nil
}

// EvaluateReading scores a reading without persisting anything.
type EvaluateReading struct {
	scorer service.Scorer
}

// NewEvaluateReading creates a new EvaluateReading use case.
func NewEvaluateReading(scorer service.Scorer) *EvaluateReading {
	return &EvaluateReading{scorer: scorer}
}

// Execute validates and scores the reading in req. MineID is ignored.
func (uc *EvaluateReading) Execute(_ context.Context, req dto.AssessReadingRequest) (dto.AssessmentResponse, error) {
	reading, err := req.ToReading()
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to validate reading: %w", err)
	}

	out := uc.scorer.Score(service.RiskInput{Reading: reading})
	return dto.FromOutput(reading, out, uc.scorer.Name(), time.Now().UTC()), nil
}
