package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/service"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// ReadingInput carries raw measurements. Fields are pointers so a missing
// field can be told apart from a zero measurement.
type ReadingInput struct {
	Slope       *float64 `json:"slope"`
	Vibration   *float64 `json:"vibration"`
	Rainfall    *float64 `json:"rainfall"`
	Temperature *float64 `json:"temperature"`
}

// ToReading validates the input and builds a Reading.
func (in ReadingInput) ToReading() (valueobject.Reading, error) {
	fields := []struct {
		name  string
		value *float64
	}{
		{valueobject.FieldSlope, in.Slope},
		{valueobject.FieldVibration, in.Vibration},
		{valueobject.FieldRainfall, in.Rainfall},
		{valueobject.FieldTemperature, in.Temperature},
	}
	for _, f := range fields {
		if f.value == nil {
			return valueobject.Reading{}, &valueobject.InvalidInputError{Field: f.name, Reason: "is required"}
		}
	}
	return valueobject.NewReading(*in.Slope, *in.Vibration, *in.Rainfall, *in.Temperature)
}

// AssessReadingRequest is the input DTO for the AssessReading and
// EvaluateReading use cases.
type AssessReadingRequest struct {
	MineID string `json:"mine_id"`
	ReadingInput
}

// GetAssessmentRequest is the input DTO for retrieving an assessment.
type GetAssessmentRequest struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// ListMineAssessmentsRequest pages through a mine's assessment history.
type ListMineAssessmentsRequest struct {
	MineID string `json:"mine_id"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ReadingResponse echoes the measurements an assessment was computed from.
type ReadingResponse struct {
	Slope       float64 `json:"slope"`
	Vibration   float64 `json:"vibration"`
	Rainfall    float64 `json:"rainfall"`
	Temperature float64 `json:"temperature"`
}

// FactorsResponse holds the per-factor sub-scores.
type FactorsResponse struct {
	SlopeInstability  int `json:"slope_instability"`
	VibrationPatterns int `json:"vibration_patterns"`
	WeatherConditions int `json:"weather_conditions"`
}

// AdvisoryResponse is the operator notice for a level.
type AdvisoryResponse struct {
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Actions []string `json:"actions"`
}

// AssessmentResponse is the output DTO returned after an assessment. ID is
// nil for results that were scored but never stored.
type AssessmentResponse struct {
	ID             *uuid.UUID       `json:"id,omitempty"`
	AssessedAt     time.Time        `json:"assessed_at"`
	Advisory       AdvisoryResponse `json:"advisory"`
	MineID         string           `json:"mine_id,omitempty"`
	Level          string           `json:"level"`
	Model          string           `json:"model"`
	Recommendation string           `json:"recommendation"`
	Reading        ReadingResponse  `json:"reading"`
	Factors        FactorsResponse  `json:"factors"`
	Probability    int              `json:"probability"`
}

// ListAssessmentsResponse is a page of assessments.
type ListAssessmentsResponse struct {
	MineID      string               `json:"mine_id"`
	Assessments []AssessmentResponse `json:"assessments"`
}

// FromReading maps a Reading to its response DTO.
func FromReading(r valueobject.Reading) ReadingResponse {
	return ReadingResponse{
		Slope:       r.Slope(),
		Vibration:   r.Vibration(),
		Rainfall:    r.Rainfall(),
		Temperature: r.Temperature(),
	}
}

func fromFactors(f valueobject.RiskFactors) FactorsResponse {
	return FactorsResponse{
		SlopeInstability:  f.SlopeInstability(),
		VibrationPatterns: f.VibrationPatterns(),
		WeatherConditions: f.WeatherConditions(),
	}
}

func fromAdvisory(level valueobject.RiskLevel) AdvisoryResponse {
	adv := valueobject.AdvisoryFor(level)
	return AdvisoryResponse{Title: adv.Title, Message: adv.Message, Actions: adv.Actions}
}

// FromModel maps a domain model to the response DTO.
func FromModel(a *model.RiskAssessment) AssessmentResponse {
	id := a.ID()
	return AssessmentResponse{
		ID:             &id,
		MineID:         a.MineID(),
		Probability:    a.Probability(),
		Level:          a.Level().String(),
		Factors:        fromFactors(a.Factors()),
		Model:          a.Model(),
		Recommendation: a.Recommendation(),
		Advisory:       fromAdvisory(a.Level()),
		Reading:        FromReading(a.Reading()),
		AssessedAt:     a.AssessedAt(),
	}
}

// FromOutput maps an unpersisted scoring result to the response DTO.
func FromOutput(reading valueobject.Reading, out service.RiskOutput, modelName string, at time.Time) AssessmentResponse {
	return AssessmentResponse{
		Probability:    out.Probability,
		Level:          out.Level.String(),
		Factors:        fromFactors(out.Factors),
		Model:          modelName,
		Recommendation: out.Level.Recommendation(),
		Advisory:       fromAdvisory(out.Level),
		Reading:        FromReading(reading),
		AssessedAt:     at,
	}
}
