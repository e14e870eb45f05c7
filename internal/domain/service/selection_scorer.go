package service

import (
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// SelectionScorer is the quick overview heuristic shown when a mine is
// picked from the catalog. It classifies on slope alone and never reports
// Safe. Probability and factors are capped at 100.
type SelectionScorer struct{}

// NewSelectionScorer creates a new SelectionScorer instance.
func NewSelectionScorer() *SelectionScorer {
	return &SelectionScorer{}
}

// Name returns the model name.
func (s *SelectionScorer) Name() string {
	return ModelSelection
}

// Score evaluates a reading with the overview heuristic.
func (s *SelectionScorer) Score(input RiskInput) RiskOutput {
	r := input.Reading

	probability := round(clamp(r.Slope()*2+r.Rainfall()*1.5+r.Vibration()*3, 0, 100))

	var level valueobject.RiskLevel
	switch {
	case input.MineStatus.Equal(valueobject.MineStatusUnderConstruction):
		level = valueobject.RiskLevelMedium
	case r.Slope() > 35:
		level = valueobject.RiskLevelHigh
	case r.Slope() > 25:
		level = valueobject.RiskLevelMedium
	default:
		level = valueobject.RiskLevelLow
	}

	factors, _ := valueobject.NewRiskFactors(
		round(clamp(r.Slope()*2, 0, 100)),
		round(clamp(r.Vibration()*8, 0, 100)),
		round(clamp(r.Rainfall()*3, 0, 100)),
	)

	return RiskOutput{
		Probability: probability,
		Level:       level,
		Factors:     factors,
	}
}
