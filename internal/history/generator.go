// Package history synthesises the display-only trend shown next to the
// current readings. It is not a log: every call produces a fresh series.
package history

import (
	"math"
	"math/rand/v2"
	"time"

	"healthguard/internal/types/wellness"
)

const (
	Points       = 12
	Interval     = time.Hour
	TimeLayout   = "15:04"
	heartJitter  = 10.0 // total width, i.e. ±5 bpm
	stressJitter = 2.0  // ±1 level
)

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

type Generator struct {
	src Source
	now func() time.Time
	loc *time.Location
}

type Option func(*Generator)

func WithRand(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{src: globalSource{}, now: time.Now, loc: time.Local}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate returns Points hourly samples ending now, jittered around the
// snapshot's heart rate and stress level and clamped to their ranges.
func (g *Generator) Generate(s wellness.SensorSnapshot) []wellness.HistoricalPoint {
	now := g.now().In(g.loc)
	out := make([]wellness.HistoricalPoint, Points)
	for i := range out {
		at := now.Add(-time.Duration(Points-1-i) * Interval)
		hr := math.Round(float64(s.HeartRate) + g.jitter(heartJitter))
		st := math.Round(float64(s.StressLevel) + g.jitter(stressJitter))
		out[i] = wellness.HistoricalPoint{
			Time:      at.Format(TimeLayout),
			At:        at,
			HeartRate: wellness.Clamp(int(hr), wellness.MinHeartRate, wellness.MaxHeartRate),
			Stress:    wellness.Clamp(int(st), wellness.MinStress, wellness.MaxStress),
		}
	}
	return out
}

func (g *Generator) jitter(width float64) float64 {
	return (g.src.Float64() - 0.5) * width
}
