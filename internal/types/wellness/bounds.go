package wellness

import "fmt"

// Range is the inclusive slider range for one reading.
type Range struct {
	Field string  `json:"field"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Unit  string  `json:"unit"`
}

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

type SensorBounds struct {
	HeartRate   Range `json:"heartRate"`
	Temperature Range `json:"temperature"`
	Steps       Range `json:"steps"`
	SleepHours  Range `json:"sleepHours"`
	StressLevel Range `json:"stressLevel"`
	BloodOxygen Range `json:"bloodOxygen"`
}

const (
	MinHeartRate = 40
	MaxHeartRate = 180
	MinStress    = 1
	MaxStress    = 10
)

func Bounds() SensorBounds {
	return SensorBounds{
		HeartRate:   Range{Field: "heartRate", Min: MinHeartRate, Max: MaxHeartRate, Step: 1, Unit: "bpm"},
		Temperature: Range{Field: "temperature", Min: 35, Max: 42, Step: 0.1, Unit: "°C"},
		Steps:       Range{Field: "steps", Min: 0, Max: 50000, Step: 1, Unit: "steps"},
		SleepHours:  Range{Field: "sleepHours", Min: 0, Max: 12, Step: 0.5, Unit: "hrs"},
		StressLevel: Range{Field: "stressLevel", Min: MinStress, Max: MaxStress, Step: 1, Unit: "/ 10"},
		BloodOxygen: Range{Field: "bloodOxygen", Min: 70, Max: 100, Step: 1, Unit: "%"},
	}
}

// Validate checks every reading against Bounds.
func (s SensorSnapshot) Validate() error {
	b := Bounds()
	checks := []struct {
		r Range
		v float64
	}{
		{b.HeartRate, float64(s.HeartRate)},
		{b.Temperature, s.Temperature},
		{b.Steps, float64(s.Steps)},
		{b.SleepHours, s.SleepHours},
		{b.StressLevel, float64(s.StressLevel)},
		{b.BloodOxygen, float64(s.BloodOxygen)},
	}
	for _, c := range checks {
		if !c.r.Contains(c.v) {
			return fmt.Errorf("%w: %s=%v not in [%v, %v]", ErrOutOfRange, c.r.Field, c.v, c.r.Min, c.r.Max)
		}
	}
	return nil
}

// Clamp returns v limited to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
