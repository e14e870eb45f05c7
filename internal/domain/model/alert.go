package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minesafe/rockfall/internal/domain/event"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
	"github.com/minesafe/rockfall/pkg/events"
)

// MaxRecentAlerts is how many alerts the alert log keeps per mine.
const MaxRecentAlerts = 10

// AlertMessage returns the text of a manually dispatched alert.
func AlertMessage(level valueobject.RiskLevel, mineName string) string {
	switch {
	case level.Equal(valueobject.RiskLevelHigh):
		return fmt.Sprintf("CRITICAL ALERT: High rockfall risk detected at %s. Immediate evacuation required.", mineName)
	case level.Equal(valueobject.RiskLevelMedium):
		return fmt.Sprintf("WARNING: Medium rockfall risk at %s. Enhanced monitoring activated.", mineName)
	case level.Equal(valueobject.RiskLevelLow):
		return fmt.Sprintf("ADVISORY: Low rockfall risk detected at %s. Continue monitoring.", mineName)
	default:
		return fmt.Sprintf("INFO: Risk status update for %s.", mineName)
	}
}

// AutoAlertMessage returns the text of the alert raised automatically on a
// High assessment.
func AutoAlertMessage(mineName string) string {
	return fmt.Sprintf("HIGH RISK ALERT: Rockfall risk detected at %s. Immediate evacuation recommended.", mineName)
}

// Alert is the aggregate root for a single safety notification.
type Alert struct {
	events.EventCollector
	createdAt     time.Time
	settledAt     time.Time
	mineID        string
	recipient     string
	message       string
	failureReason string
	channel       valueobject.AlertChannel
	status        valueobject.AlertStatus
	riskLevel     valueobject.RiskLevel
	id            uuid.UUID
}

// NewAlert creates a pending alert. The risk level is stored as an alert
// level, so Safe becomes Low.
func NewAlert(
	mineID string,
	channel valueobject.AlertChannel,
	recipient string,
	level valueobject.RiskLevel,
	message string,
) (*Alert, error) {
	if mineID == "" {
		return nil, fmt.Errorf("mine ID is required")
	}
	if channel.IsZero() {
		return nil, fmt.Errorf("alert channel is required")
	}
	if recipient == "" {
		return nil, fmt.Errorf("recipient is required for %s alerts", channel)
	}
	if level.IsZero() {
		return nil, fmt.Errorf("risk level is required")
	}
	if message == "" {
		return nil, fmt.Errorf("alert message is required")
	}

	return &Alert{
		id:        uuid.New(),
		mineID:    mineID,
		channel:   channel,
		recipient: recipient,
		riskLevel: level.AlertLevel(),
		message:   message,
		status:    valueobject.AlertStatusPending,
		createdAt: time.Now().UTC(),
	}, nil
}

// MarkSent settles the alert as delivered.
func (a *Alert) MarkSent() error {
	return a.settle(valueobject.AlertStatusSent, "")
}

// MarkFailed settles the alert as undeliverable.
func (a *Alert) MarkFailed(reason string) error {
	return a.settle(valueobject.AlertStatusFailed, reason)
}

func (a *Alert) settle(status valueobject.AlertStatus, reason string) error {
	if a.status.IsTerminal() {
		return fmt.Errorf("alert %s already %s", a.id, a.status)
	}

	a.status = status
	a.failureReason = reason
	a.settledAt = time.Now().UTC()

	a.Record(event.NewAlertDispatched(
		a.id, a.mineID, a.channel.String(), a.status.String(), a.riskLevel.String(), a.settledAt,
	))
	return nil
}

// ReconstructAlert rebuilds an Alert from persisted data (no validation, no events).
func ReconstructAlert(
	id uuid.UUID,
	mineID string,
	channel valueobject.AlertChannel,
	recipient string,
	level valueobject.RiskLevel,
	message string,
	status valueobject.AlertStatus,
	failureReason string,
	createdAt, settledAt time.Time,
) *Alert {
	return &Alert{
		id:            id,
		mineID:        mineID,
		channel:       channel,
		recipient:     recipient,
		riskLevel:     level,
		message:       message,
		status:        status,
		failureReason: failureReason,
		createdAt:     createdAt,
		settledAt:     settledAt,
	}
}

func (a *Alert) ID() uuid.UUID                     { return a.id }
func (a *Alert) MineID() string                    { return a.mineID }
func (a *Alert) Channel() valueobject.AlertChannel { return a.channel }
func (a *Alert) Recipient() string                 { return a.recipient }
func (a *Alert) RiskLevel() valueobject.RiskLevel  { return a.riskLevel }
func (a *Alert) Message() string                   { return a.message }
func (a *Alert) Status() valueobject.AlertStatus   { return a.status }
func (a *Alert) FailureReason() string             { return a.failureReason }
func (a *Alert) CreatedAt() time.Time              { return a.createdAt }
func (a *Alert) SettledAt() time.Time              { return a.settledAt }

// AlertSummary counts alerts by delivery status.
type AlertSummary struct {
	Sent    int
	Pending int
	Failed  int
}

// SummarizeAlerts counts alerts by status.
func SummarizeAlerts(alerts []*Alert) AlertSummary {
	var s AlertSummary
	for _, a := range alerts {
		switch a.status {
		case valueobject.AlertStatusSent:
			s.Sent++
		case valueobject.AlertStatusFailed:
			s.Failed++
		default:
			s.Pending++
		}
	}
	return s
}
