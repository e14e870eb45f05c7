package service

import (
	"fmt"

	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// Model names recorded on every assessment.
const (
	ModelWeighted  = "weighted"
	ModelSelection = "selection"
)

// RiskInput contains the data required for risk scoring.
type RiskInput struct {
	Reading    valueobject.Reading
	MineStatus valueobject.MineStatus
}

// RiskOutput contains the result of risk scoring.
type RiskOutput struct {
	Level       valueobject.RiskLevel
	Factors     valueobject.RiskFactors
	Probability int
}

// Scorer defines the interface for risk scoring strategies.
// Both RiskScorer and SelectionScorer implement this.
type Scorer interface {
	Name() string
	Score(input RiskInput) RiskOutput
}

// NewScorer returns the scorer registered under name.
func NewScorer(name string) (Scorer, error) {
	switch name {
	case ModelWeighted:
		return NewRiskScorer(), nil
	case ModelSelection:
		return NewSelectionScorer(), nil
	default:
		return nil, fmt.Errorf("unknown risk model: %q", name)
	}
}
