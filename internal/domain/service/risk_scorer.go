package service

import (
	"math"

	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// Normalization scales and weights of the weighted model.
const (
	slopeScale     = 60.0
	vibrationScale = 100.0
	weatherScale   = 60.0
	baseTemp       = 25.0

	slopeWeight     = 0.4
	vibrationWeight = 0.3
	weatherWeight   = 0.3
)

// RiskScorer is a domain service that derives a rockfall probability from a
// fixed linear weighting of three normalized factors.
type RiskScorer struct{}

// NewRiskScorer creates a new RiskScorer instance.
func NewRiskScorer() *RiskScorer {
	return &RiskScorer{}
}

// Name returns the model name.
func (s *RiskScorer) Name() string {
	return ModelWeighted
}

// Assess validates raw measurements and scores them.
func (s *RiskScorer) Assess(slope, vibration, rainfall, temperature float64) (RiskOutput, error) {
	reading, err := valueobject.NewReading(slope, vibration, rainfall, temperature)
	if err != nil {
		return RiskOutput{}, err
	}
	return s.Score(RiskInput{Reading: reading}), nil
}

// Score evaluates a reading. Each factor is normalized to 0-100, the
// probability is the weighted sum rounded to an integer and the level is
// derived from that integer.
func (s *RiskScorer) Score(input RiskInput) RiskOutput {
	r := input.Reading

	slopeRisk := clamp(r.Slope()/slopeScale*100, 0, 100)
	vibrationRisk := clamp(r.Vibration()/vibrationScale*100, 0, 100)
	weatherRisk := clamp((r.Rainfall()+math.Abs(r.Temperature()-baseTemp))/weatherScale*100, 0, 100)

	weighted := slopeWeight*slopeRisk + vibrationWeight*vibrationRisk + weatherWeight*weatherRisk
	probability := round(clamp(weighted, 0, 100))

	// Sub-scores are already within 0-100 so this cannot fail.
	factors, _ := valueobject.NewRiskFactors(round(slopeRisk), round(vibrationRisk), round(weatherRisk))

	return RiskOutput{
		Probability: probability,
		Level:       valueobject.RiskLevelFromProbability(probability),
		Factors:     factors,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round rounds half up.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
