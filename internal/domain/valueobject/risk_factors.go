package valueobject

import "fmt"

// RiskFactors holds the three normalized sub-scores (0-100) that make up a
// risk probability.
type RiskFactors struct {
	slopeInstability  int
	vibrationPatterns int
	weatherConditions int
}

// NewRiskFactors builds RiskFactors, rejecting any score outside 0-100.
func NewRiskFactors(slopeInstability, vibrationPatterns, weatherConditions int) (RiskFactors, error) {
	scores := []struct {
		name  string
		value int
	}{
		{"slope instability", slopeInstability},
		{"vibration patterns", vibrationPatterns},
		{"weather conditions", weatherConditions},
	}
	for _, s := range scores {
		if s.value < 0 || s.value > 100 {
			return RiskFactors{}, fmt.Errorf("%s factor must be between 0 and 100, got %d", s.name, s.value)
		}
	}
	return RiskFactors{
		slopeInstability:  slopeInstability,
		vibrationPatterns: vibrationPatterns,
		weatherConditions: weatherConditions,
	}, nil
}

func (f RiskFactors) SlopeInstability() int  { return f.slopeInstability }
func (f RiskFactors) VibrationPatterns() int { return f.vibrationPatterns }
func (f RiskFactors) WeatherConditions() int { return f.weatherConditions }
