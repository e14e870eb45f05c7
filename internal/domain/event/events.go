package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/minesafe/rockfall/pkg/events"
)

const (
	// EventTypeAssessmentCompleted is emitted when a reading has been scored.
	EventTypeAssessmentCompleted = "rockfall.assessment.completed"

	// EventTypeHighRiskDetected is emitted when an assessment lands in the High band.
	EventTypeHighRiskDetected = "rockfall.high_risk.detected"

	// EventTypeAlertDispatched is emitted once an alert delivery has settled.
	EventTypeAlertDispatched = "rockfall.alert.dispatched"
)

const (
	aggregateAssessment = "RiskAssessment"
	aggregateAlert      = "Alert"
)

// AssessmentCompleted is published when a risk assessment has been
// completed for a mine.
type AssessmentCompleted struct {
	events.BaseEvent
	AssessedAt        time.Time `json:"assessed_at"`
	MineID            string    `json:"mine_id"`
	Level             string    `json:"level"`
	Model             string    `json:"model"`
	Probability       int       `json:"probability"`
	SlopeInstability  int       `json:"slope_instability"`
	VibrationPatterns int       `json:"vibration_patterns"`
	WeatherConditions int       `json:"weather_conditions"`
	AssessmentID      uuid.UUID `json:"assessment_id"`
}

// NewAssessmentCompleted builds an AssessmentCompleted event.
func NewAssessmentCompleted(
	assessmentID uuid.UUID,
	mineID, level, model string,
	probability, slope, vibration, weather int,
	assessedAt time.Time,
) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent:         events.NewBaseEvent(EventTypeAssessmentCompleted, assessmentID.String(), aggregateAssessment),
		AssessmentID:      assessmentID,
		MineID:            mineID,
		Level:             level,
		Model:             model,
		Probability:       probability,
		SlopeInstability:  slope,
		VibrationPatterns: vibration,
		WeatherConditions: weather,
		AssessedAt:        assessedAt,
	}
}

// HighRiskDetected is published when an assessment is High, triggering
// evacuation alerts.
type HighRiskDetected struct {
	events.BaseEvent
	DetectedAt   time.Time `json:"detected_at"`
	MineID       string    `json:"mine_id"`
	Probability  int       `json:"probability"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// NewHighRiskDetected builds a HighRiskDetected event.
func NewHighRiskDetected(assessmentID uuid.UUID, mineID string, probability int, detectedAt time.Time) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent:    events.NewBaseEvent(EventTypeHighRiskDetected, assessmentID.String(), aggregateAssessment),
		AssessmentID: assessmentID,
		MineID:       mineID,
		Probability:  probability,
		DetectedAt:   detectedAt,
	}
}

// AlertDispatched is published when an alert has been sent or has failed.
type AlertDispatched struct {
	events.BaseEvent
	SettledAt time.Time `json:"settled_at"`
	MineID    string    `json:"mine_id"`
	Channel   string    `json:"channel"`
	Status    string    `json:"status"`
	RiskLevel string    `json:"risk_level"`
	AlertID   uuid.UUID `json:"alert_id"`
}

// NewAlertDispatched builds an AlertDispatched event.
func NewAlertDispatched(alertID uuid.UUID, mineID, channel, status, riskLevel string, settledAt time.Time) AlertDispatched {
	return AlertDispatched{
		BaseEvent: events.NewBaseEvent(EventTypeAlertDispatched, alertID.String(), aggregateAlert),
		AlertID:   alertID,
		MineID:    mineID,
		Channel:   channel,
		Status:    status,
		RiskLevel: riskLevel,
		SettledAt: settledAt,
	}
}
