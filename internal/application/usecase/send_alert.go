package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/minesafe/rockfall/internal/application/dto"
	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// SendAlert is the use case for dispatching safety alerts. Every alert is
// stored as pending, handed to the notifier and then settled as sent or
// failed depending on the notifier's answer.
type SendAlert struct {
	alerts      port.AlertRepository
	assessments port.AssessmentRepository
	catalog     port.MineCatalog
	notifier    port.Notifier
	publisher   port.EventPublisher
	recipients  port.RecipientDirectory
	metrics     Metrics
}

// NewSendAlert creates a new SendAlert use case.
func NewSendAlert(
	alerts port.AlertRepository,
	assessments port.AssessmentRepository,
	catalog port.MineCatalog,
	notifier port.Notifier,
	publisher port.EventPublisher,
	recipients port.RecipientDirectory,
	metrics Metrics,
) *SendAlert {
	return &SendAlert{
		alerts:      alerts,
		assessments: assessments,
		catalog:     catalog,
		notifier:    notifier,
		publisher:   publisher,
		recipients:  recipients,
		metrics:     metrics,
	}
}

// Execute sends a manual alert reflecting the mine's latest assessment.
func (uc *SendAlert) Execute(ctx context.Context, req dto.SendAlertRequest) (dto.AlertResponse, error) {
	channel, err := valueobject.AlertChannelFromString(req.Channel)
	if err != nil {
		return dto.AlertResponse{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	mine, err := uc.catalog.Get(ctx, req.MineID)
	if err != nil {
		return dto.AlertResponse{}, fmt.Errorf("failed to load mine %s: %w", req.MineID, err)
	}

	latest, err := uc.assessments.FindByMineID(ctx, mine.ID(), 1, 0)
	if err != nil {
		return dto.AlertResponse{}, fmt.Errorf("failed to load latest assessment: %w", err)
	}
	if len(latest) == 0 {
		return dto.AlertResponse{}, fmt.Errorf("%w: mine %s has not been assessed", ErrFailedPrecondition, mine.ID())
	}

	alert, err := uc.DispatchManual(ctx, mine, latest[0].Level(), channel)
	if err != nil {
		return dto.AlertResponse{}, err
	}
	return dto.FromAlert(alert), nil
}

// DispatchManual sends the operator alert for level over channel. A Safe
// mine has nothing to alert on.
func (uc *SendAlert) DispatchManual(
	ctx context.Context,
	mine *model.Mine,
	level valueobject.RiskLevel,
	channel valueobject.AlertChannel,
) (*model.Alert, error) {
	if level.Equal(valueobject.RiskLevelSafe) {
		return nil, fmt.Errorf("%w: mine %s is at Safe risk level", ErrFailedPrecondition, mine.ID())
	}
	return uc.dispatch(ctx, mine, channel, level, model.AlertMessage(level, mine.Name()))
}

// RaiseAutomatic sends the evacuation email that follows a High assessment.
func (uc *SendAlert) RaiseAutomatic(ctx context.Context, mine *model.Mine) (*model.Alert, error) {
	return uc.dispatch(ctx, mine, valueobject.AlertChannelEmail, valueobject.RiskLevelHigh, model.AutoAlertMessage(mine.Name()))
}

func (uc *SendAlert) dispatch(
	ctx context.Context,
	mine *model.Mine,
	channel valueobject.AlertChannel,
	level valueobject.RiskLevel,
	message string,
) (*model.Alert, error) {
	ctx, span := tracer.Start(ctx, "usecase.send_alert", trace.WithAttributes(
		attribute.String("mine.id", mine.ID()),
		attribute.String("alert.channel", channel.String()),
	))
	defer span.End()

	// 1. Resolve the recipient for the channel.
	recipient, ok := uc.recipients.Recipient(channel)
	if !ok {
		return nil, fmt.Errorf("%w: no recipient configured for %s", ErrFailedPrecondition, channel)
	}

	// 2. Create and store the pending alert.
	alert, err := model.NewAlert(mine.ID(), channel, recipient, level, message)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	if err := uc.alerts.Save(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to save alert: %w", err)
	}

	// 3. Deliver and settle.
	if notifyErr := uc.notifier.Notify(ctx, alert); notifyErr != nil {
		err = alert.MarkFailed(notifyErr.Error())
	} else {
		err = alert.MarkSent()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to settle alert: %w", err)
	}
	span.SetAttributes(attribute.String("alert.status", alert.Status().String()))

	// 4. Persist the settled status.
	if err := uc.alerts.Save(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to save alert: %w", err)
	}

	// 5. Publish domain events.
	if evts := alert.DomainEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			return nil, fmt.Errorf("failed to publish events: %w", err)
		}
	}

	uc.metrics.AlertSettled(ctx, channel.String(), alert.Status().String())
	return alert, nil
}

// ListAlerts is the use case for reading a mine's recent alert log.
type ListAlerts struct {
	alerts  port.AlertRepository
	catalog port.MineCatalog
}

// NewListAlerts creates a new ListAlerts use case.
func NewListAlerts(alerts port.AlertRepository, catalog port.MineCatalog) *ListAlerts {
	return &ListAlerts{alerts: alerts, catalog: catalog}
}

// Execute returns the most recent alerts for a mine with status counts.
func (uc *ListAlerts) Execute(ctx context.Context, req dto.ListAlertsRequest) (dto.AlertLogResponse, error) {
	if _, err := uc.catalog.Get(ctx, req.MineID); err != nil {
		return dto.AlertLogResponse{}, fmt.Errorf("failed to load mine %s: %w", req.MineID, err)
	}

	alerts, err := uc.alerts.FindRecentByMineID(ctx, req.MineID, model.MaxRecentAlerts)
	if err != nil && !errors.Is(err, port.ErrNotFound) {
		return dto.AlertLogResponse{}, fmt.Errorf("failed to list alerts: %w", err)
	}

	return dto.FromAlerts(req.MineID, alerts), nil
}
