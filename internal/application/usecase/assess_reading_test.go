package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minesafe/rockfall/internal/application/dto"
	"github.com/minesafe/rockfall/internal/application/usecase"
	"github.com/minesafe/rockfall/internal/domain/event"
	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/service"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
	"github.com/minesafe/rockfall/pkg/events"
)

type fixture struct {
	repo      *mockAssessmentRepository
	alerts    *mockAlertRepository
	catalog   *mockCatalog
	publisher *mockEventPublisher
	notifier  *mockNotifier
	metrics   *recordingMetrics
	sendAlert *usecase.SendAlert
	assess    *usecase.AssessReading
}

func newFixture(t *testing.T, scorer service.Scorer, autoAlert bool) *fixture {
	f := &fixture{
		repo:      &mockAssessmentRepository{},
		alerts:    &mockAlertRepository{},
		catalog:   testCatalog(t),
		publisher: &mockEventPublisher{},
		notifier:  &mockNotifier{},
		metrics:   &recordingMetrics{},
	}
	f.sendAlert = usecase.NewSendAlert(f.alerts, f.repo, f.catalog, f.notifier, f.publisher, defaultRecipients(), f.metrics)

	var auto *usecase.SendAlert
	if autoAlert {
		auto = f.sendAlert
	}
	f.assess = usecase.NewAssessReading(f.repo, f.catalog, f.publisher, scorer, auto, f.metrics, testLogger())
	return f
}

func readingRequest(mineID string, slope, vibration, rainfall, temperature float64) dto.AssessReadingRequest {
	return dto.AssessReadingRequest{
		MineID: mineID,
		ReadingInput: dto.ReadingInput{
			Slope:       ptr(slope),
			Vibration:   ptr(vibration),
			Rainfall:    ptr(rainfall),
			Temperature: ptr(temperature),
		},
	}
}

func TestAssessReading_Execute(t *testing.T) {
	t.Run("assesses the reference reading as Medium", func(t *testing.T) {
		f := newFixture(t, service.NewRiskScorer(), true)

		resp, err := f.assess.Execute(context.Background(), readingRequest("1", 40, 60, 15, 30))

		require.NoError(t, err)
		require.NotNil(t, resp.ID)
		assert.NotEqual(t, uuid.Nil, *resp.ID)
		assert.Equal(t, "1", resp.MineID)
		assert.Equal(t, 55, resp.Probability)
		assert.Equal(t, "Medium", resp.Level)
		assert.Equal(t, "weighted", resp.Model)
		assert.Equal(t, dto.FactorsResponse{SlopeInstability: 67, VibrationPatterns: 60, WeatherConditions: 33}, resp.Factors)
		assert.Contains(t, resp.Recommendation, "Increased monitoring")
		assert.Len(t, f.repo.saved, 1)
		assert.Equal(t, []string{event.EventTypeAssessmentCompleted}, f.publisher.types())
		assert.Empty(t, f.notifier.notified)
		assert.Equal(t, []string{"weighted:Medium"}, f.metrics.assessments)
	})

	t.Run("high reading raises automatic email alert", func(t *testing.T) {
		f := newFixture(t, service.NewRiskScorer(), true)

		resp, err := f.assess.Execute(context.Background(), readingRequest("2", 90, 200, 100, 25))

		require.NoError(t, err)
		assert.Equal(t, "High", resp.Level)
		require.Len(t, f.notifier.notified, 1)

		alert := f.notifier.notified[0]
		assert.Equal(t, valueobject.AlertChannelEmail, alert.Channel())
		assert.Equal(t, "safety@miningcompany.com", alert.Recipient())
		assert.Equal(t, model.AutoAlertMessage("Salem Steel Plant Mine"), alert.Message())
		assert.Equal(t, valueobject.AlertStatusSent, alert.Status())
		assert.Equal(t, []string{"pending", "sent"}, f.alerts.statuses)
		assert.Equal(t, []string{
			event.EventTypeAlertDispatched,
			event.EventTypeAssessmentCompleted,
			event.EventTypeHighRiskDetected,
		}, f.publisher.types())
	})

	t.Run("auto alert disabled", func(t *testing.T) {
		f := newFixture(t, service.NewRiskScorer(), false)

		_, err := f.assess.Execute(context.Background(), readingRequest("2", 90, 200, 100, 25))

		require.NoError(t, err)
		assert.Empty(t, f.notifier.notified)
	})

	t.Run("notifier failure does not fail the assessment", func(t *testing.T) {
		f := newFixture(t, service.NewRiskScorer(), true)
		f.notifier.err = fmt.Errorf("smtp unreachable")

		resp, err := f.assess.Execute(context.Background(), readingRequest("1", 90, 200, 100, 25))

		require.NoError(t, err)
		assert.Equal(t, "High", resp.Level)
		assert.Equal(t, []string{"pending", "failed"}, f.alerts.statuses)
		assert.Equal(t, []string{"email:failed"}, f.metrics.alerts)
	})

	t.Run("rejects reading with a missing field", func(t *testing.T) {
		f := newFixture(t, service.NewRiskScorer(), true)
		req := readingRequest("1", 10, 10, 10, 25)
		req.Rainfall = nil

		_, err := f.assess.Execute(context.Background(), req)

		require.Error(t, err)
		var inputErr *valueobject.InvalidInputError
		require.True(t, errors.As(err, &inputErr))
		assert.Equal(t, valueobject.FieldRainfall, inputErr.Field)
		assert.Empty(t, f.repo.saved)
	})

	t.Run("rejects negative vibration", func(t *testing.T) {
		f := newFixture(t, service.NewRiskScorer(), true)

		_, err := f.assess.Execute(context.Background(), readingRequest("1", 10, -1, 10, 25))

		var inputErr *valueobject.InvalidInputError
		require.True(t, errors.As(err, &inputErr))
		assert.Equal(t, valueobject.FieldVibration, inputErr.Field)
	})

	t.Run("requires mine ID", func(t *testing.T) {
		f := newFixture(t, service.NewRiskScorer(), true)

		_, err := f.assess.Execute(context.Background(), readingRequest("", 10, 10, 10, 25))

		require.Error(t, err)
		assert.True(t, errors.Is(err, usecase.ErrInvalidArgument))
	})

	t.Run("unknown mine", func(t *testing.T) {
		f := newFixture(t, service.NewRiskScorer(), true)

		_, err := f.assess.Execute(context.Background(), readingRequest("99", 10, 10, 10, 25))

		require.Error(t, err)
		assert.True(t, errors.Is(err, port.ErrNotFound))
	})

	t.Run("fails when repository save fails", func(t *testing.T) {
		f := newFixture(t, service.NewRiskScorer(), true)
		f.repo.saveFunc = func(context.Context, *model.RiskAssessment) error {
			return fmt.Errorf("database unavailable")
		}

		_, err := f.assess.Execute(context.Background(), readingRequest("1", 10, 10, 10, 25))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save assessment")
	})

	t.Run("fails when event publishing fails", func(t *testing.T) {
		f := newFixture(t, service.NewRiskScorer(), true)
		f.publisher.publishFunc = func(context.Context, ...events.DomainEvent) error {
			return fmt.Errorf("kafka unavailable")
		}

		_, err := f.assess.Execute(context.Background(), readingRequest("1", 10, 10, 10, 25))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish events")
	})

	t.Run("selection model marks construction sites Medium", func(t *testing.T) {
		f := newFixture(t, service.NewSelectionScorer(), true)

		resp, err := f.assess.Execute(context.Background(), readingRequest("4", 45, 5, 10, 25))

		require.NoError(t, err)
		assert.Equal(t, "Medium", resp.Level)
		assert.Equal(t, "selection", resp.Model)
	})
}

func TestEvaluateReading_Execute(t *testing.T) {
	uc := usecase.NewEvaluateReading(service.NewRiskScorer())

	resp, err := uc.Execute(context.Background(), readingRequest("", 0, 0, 0, 25))
	require.NoError(t, err)
	assert.Nil(t, resp.ID)
	assert.Equal(t, 0, resp.Probability)
	assert.Equal(t, "Safe", resp.Level)
	assert.Contains(t, resp.Advisory.Title, "ADVISORY")

	_, err = uc.Execute(context.Background(), dto.AssessReadingRequest{})
	var inputErr *valueobject.InvalidInputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, valueobject.FieldSlope, inputErr.Field)
}
