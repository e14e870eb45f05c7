package valueobject

import (
	"fmt"
	"math"
)

// Field names used in InvalidInputError.
const (
	FieldSlope       = "slope"
	FieldVibration   = "vibration"
	FieldRainfall    = "rainfall"
	FieldTemperature = "temperature"
)

// MaxSlope is the steepest slope angle a reading may report, in degrees.
const MaxSlope = 90.0

// InvalidInputError reports a reading field that cannot be scored.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid reading: %s %s", e.Field, e.Reason)
}

// Reading is an immutable snapshot of the four environmental measurements
// taken at a mine site.
type Reading struct {
	slope       float64
	vibration   float64
	rainfall    float64
	temperature float64
}

// NewReading validates and builds a Reading.
// Slope is in degrees, vibration in sensor units, rainfall in mm/h and
// temperature in degrees Celsius.
func NewReading(slope, vibration, rainfall, temperature float64) (Reading, error) {
	if err := requireFinite(FieldSlope, slope); err != nil {
		return Reading{}, err
	}
	if err := requireFinite(FieldVibration, vibration); err != nil {
		return Reading{}, err
	}
	if err := requireFinite(FieldRainfall, rainfall); err != nil {
		return Reading{}, err
	}
	if err := requireFinite(FieldTemperature, temperature); err != nil {
		return Reading{}, err
	}

	if slope < 0 {
		return Reading{}, &InvalidInputError{Field: FieldSlope, Reason: "must not be negative"}
	}
	if slope > MaxSlope {
		return Reading{}, &InvalidInputError{Field: FieldSlope, Reason: fmt.Sprintf("must not exceed %.0f degrees", MaxSlope)}
	}
	if vibration < 0 {
		return Reading{}, &InvalidInputError{Field: FieldVibration, Reason: "must not be negative"}
	}
	if rainfall < 0 {
		return Reading{}, &InvalidInputError{Field: FieldRainfall, Reason: "must not be negative"}
	}

	return Reading{
		slope:       slope,
		vibration:   vibration,
		rainfall:    rainfall,
		temperature: temperature,
	}, nil
}

func requireFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &InvalidInputError{Field: field, Reason: "must be a finite number"}
	}
	return nil
}

func (r Reading) Slope() float64       { return r.slope }
func (r Reading) Vibration() float64   { return r.vibration }
func (r Reading) Rainfall() float64    { return r.rainfall }
func (r Reading) Temperature() float64 { return r.temperature }

// Equal checks equality with another Reading.
func (r Reading) Equal(other Reading) bool {
	return r == other
}
