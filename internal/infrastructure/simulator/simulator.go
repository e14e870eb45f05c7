// Package simulator produces plausible sensor readings for mines that have
// no live telemetry feed.
package simulator

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/spaolacci/murmur3"

	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// Range is a closed interval readings are drawn from.
type Range struct {
	Min, Max float64
}

func (r Range) draw(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Ranges bounds each simulated parameter.
type Ranges struct {
	Slope       Range // degrees
	Rainfall    Range // mm/h
	Temperature Range // °C
	Vibration   Range
}

// DefaultRanges are the ranges used for open-pit mines.
var DefaultRanges = Ranges{
	Slope:       Range{Min: 5, Max: 50},
	Rainfall:    Range{Min: 5, Max: 25},
	Temperature: Range{Min: 20, Max: 35},
	Vibration:   Range{Min: 2, Max: 12},
}

// Simulator implements port.ReadingSource. Every mine has its own random
// stream seeded from the mine ID and a global seed, so a given seed replays
// the same sequence of readings per mine regardless of call order across
// mines.
type Simulator struct {
	mu      sync.Mutex
	seed    uint32
	ranges  Ranges
	streams map[string]*rand.Rand
}

var _ port.ReadingSource = (*Simulator)(nil)

// New creates a Simulator.
func New(seed uint32, ranges Ranges) *Simulator {
	return &Simulator{
		seed:    seed,
		ranges:  ranges,
		streams: make(map[string]*rand.Rand),
	}
}

// Read draws the next reading for mine. Values are rounded to one decimal.
func (s *Simulator) Read(ctx context.Context, mine *model.Mine) (valueobject.Reading, error) {
	if err := ctx.Err(); err != nil {
		return valueobject.Reading{}, err
	}

	s.mu.Lock()
	rng := s.stream(mine.ID())
	slope := tenth(s.ranges.Slope.draw(rng))
	rainfall := tenth(s.ranges.Rainfall.draw(rng))
	temperature := tenth(s.ranges.Temperature.draw(rng))
	vibration := tenth(s.ranges.Vibration.draw(rng))
	s.mu.Unlock()

	return valueobject.NewReading(slope, vibration, rainfall, temperature)
}

// stream must be called with s.mu held.
func (s *Simulator) stream(mineID string) *rand.Rand {
	if rng, ok := s.streams[mineID]; ok {
		return rng
	}
	h := murmur3.Sum64WithSeed([]byte(mineID), s.seed)
	rng := rand.New(rand.NewSource(int64(h)))
	s.streams[mineID] = rng
	return rng
}

func tenth(v float64) float64 {
	return math.Round(v*10) / 10
}
