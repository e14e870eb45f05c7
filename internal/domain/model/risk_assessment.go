package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minesafe/rockfall/internal/domain/event"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
	"github.com/minesafe/rockfall/pkg/events"
)

// RiskAssessment is the aggregate root for a scored reading at a mine.
type RiskAssessment struct {
	events.EventCollector
	assessedAt  time.Time
	createdAt   time.Time
	mineID      string
	model       string
	level       valueobject.RiskLevel
	reading     valueobject.Reading
	factors     valueobject.RiskFactors
	probability int
	id          uuid.UUID
}

// NewRiskAssessment creates a new assessment for a reading taken at a mine.
// The assessment starts unscored; call Assess() to apply a score.
func NewRiskAssessment(mineID string, reading valueobject.Reading) (*RiskAssessment, error) {
	if mineID == "" {
		return nil, fmt.Errorf("mine ID is required")
	}

	return &RiskAssessment{
		id:        uuid.New(),
		mineID:    mineID,
		reading:   reading,
		createdAt: time.Now().UTC(),
	}, nil
}

// Assess applies a score produced by the named model. This is the core
// domain operation and records AssessmentCompleted, plus HighRiskDetected
// when the level is High.
func (a *RiskAssessment) Assess(probability int, level valueobject.RiskLevel, factors valueobject.RiskFactors, model string) error {
	if probability < 0 || probability > 100 {
		return fmt.Errorf("probability must be between 0 and 100, got %d", probability)
	}
	if level.IsZero() {
		return fmt.Errorf("risk level is required")
	}
	if model == "" {
		return fmt.Errorf("model name is required")
	}
	if !a.assessedAt.IsZero() {
		return fmt.Errorf("assessment %s has already been scored", a.id)
	}

	a.probability = probability
	a.level = level
	a.factors = factors
	a.model = model
	a.assessedAt = time.Now().UTC()

	a.Record(event.NewAssessmentCompleted(
		a.id, a.mineID, a.level.String(), a.model,
		a.probability, factors.SlopeInstability(), factors.VibrationPatterns(), factors.WeatherConditions(),
		a.assessedAt,
	))

	if a.IsHigh() {
		a.Record(event.NewHighRiskDetected(a.id, a.mineID, a.probability, a.assessedAt))
	}

	return nil
}

// IsHigh reports whether the assessment landed in the High band.
func (a *RiskAssessment) IsHigh() bool {
	return a.level.Equal(valueobject.RiskLevelHigh)
}

// Recommendation returns the operational guidance for the assessed level.
func (a *RiskAssessment) Recommendation() string {
	return a.level.Recommendation()
}

// Advisory returns the operator notice for the assessed level.
func (a *RiskAssessment) Advisory() valueobject.Advisory {
	return valueobject.AdvisoryFor(a.level)
}

// ReconstructRiskAssessment rebuilds a RiskAssessment from persisted data (no validation, no events).
func ReconstructRiskAssessment(
	id uuid.UUID,
	mineID string,
	reading valueobject.Reading,
	probability int,
	level valueobject.RiskLevel,
	factors valueobject.RiskFactors,
	model string,
	assessedAt, createdAt time.Time,
) *RiskAssessment {
	return &RiskAssessment{
		id:          id,
		mineID:      mineID,
		reading:     reading,
		probability: probability,
		level:       level,
		factors:     factors,
		model:       model,
		assessedAt:  assessedAt,
		createdAt:   createdAt,
	}
}

// --- Accessors ---

func (a *RiskAssessment) ID() uuid.UUID                    { return a.id }
func (a *RiskAssessment) MineID() string                   { return a.mineID }
func (a *RiskAssessment) Reading() valueobject.Reading     { return a.reading }
func (a *RiskAssessment) Probability() int                 { return a.probability }
func (a *RiskAssessment) Level() valueobject.RiskLevel     { return a.level }
func (a *RiskAssessment) Factors() valueobject.RiskFactors { return a.factors }
func (a *RiskAssessment) Model() string                    { return a.model }
func (a *RiskAssessment) AssessedAt() time.Time            { return a.assessedAt }
func (a *RiskAssessment) CreatedAt() time.Time             { return a.createdAt }
