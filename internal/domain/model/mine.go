package model

import (
	"fmt"
	"strings"

	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// Mine is a site in the monitored catalog.
type Mine struct {
	id          string
	name        string
	location    string
	mineType    string
	status      valueobject.MineStatus
	coordinates valueobject.Coordinates
	elevation   float64
	area        float64
}

// NewMine validates and creates a Mine. Elevation is in metres and area in hectares.
func NewMine(
	id, name, location, mineType string,
	status valueobject.MineStatus,
	coordinates valueobject.Coordinates,
	elevation, area float64,
) (*Mine, error) {
	if id == "" {
		return nil, fmt.Errorf("mine ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("mine name is required")
	}
	if status == (valueobject.MineStatus{}) {
		return nil, fmt.Errorf("mine status is required")
	}
	if err := coordinates.Validate(); err != nil {
		return nil, fmt.Errorf("invalid coordinates for mine %s: %w", id, err)
	}
	if area < 0 {
		return nil, fmt.Errorf("mine area must not be negative")
	}

	return &Mine{
		id:          id,
		name:        name,
		location:    location,
		mineType:    mineType,
		status:      status,
		coordinates: coordinates,
		elevation:   elevation,
		area:        area,
	}, nil
}

// Matches reports whether query is a case-insensitive substring of the
// mine's name, location or type. An empty query matches every mine.
func (m *Mine) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.name), q) ||
		strings.Contains(strings.ToLower(m.location), q) ||
		strings.Contains(strings.ToLower(m.mineType), q)
}

// IsActive reports whether the mine is currently operating.
func (m *Mine) IsActive() bool {
	return m.status.Equal(valueobject.MineStatusActive)
}

func (m *Mine) ID() string                           { return m.id }
func (m *Mine) Name() string                         { return m.name }
func (m *Mine) Location() string                     { return m.location }
func (m *Mine) Type() string                         { return m.mineType }
func (m *Mine) Status() valueobject.MineStatus       { return m.status }
func (m *Mine) Coordinates() valueobject.Coordinates { return m.coordinates }
func (m *Mine) Elevation() float64                   { return m.elevation }
func (m *Mine) Area() float64                        { return m.area }
