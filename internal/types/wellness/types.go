package wellness

import (
	"fmt"
	"strings"
	"time"
)

// SensorSnapshot is the current simulated reading set.
type SensorSnapshot struct {
	HeartRate   int     `json:"heartRate" yaml:"heart_rate"`     // bpm
	Temperature float64 `json:"temperature" yaml:"temperature"`  // °C
	Steps       int     `json:"steps" yaml:"steps"`              // count
	SleepHours  float64 `json:"sleepHours" yaml:"sleep_hours"`   // hours
	StressLevel int     `json:"stressLevel" yaml:"stress_level"` // 1-10
	BloodOxygen int     `json:"bloodOxygen" yaml:"blood_oxygen"` // %
}

type UserContext struct {
	Symptoms  string `json:"symptoms" yaml:"symptoms"`
	Lifestyle string `json:"lifestyle" yaml:"lifestyle"`
	Diet      string `json:"diet" yaml:"diet"`
}

// HistoricalPoint is one hourly sample of the synthetic display trend.
type HistoricalPoint struct {
	Time      string    `json:"time"`
	At        time.Time `json:"at"`
	HeartRate int       `json:"heartRate"`
	Stress    int       `json:"stress"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevels lists the levels in ascending severity.
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh}
}

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

func (r RiskLevel) String() string { return string(r) }

// ParseRiskLevel accepts the exact enum spelling only.
func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: risk level %q", ErrUnknownOption, s)
	}
	return r, nil
}

type AnalysisResult struct {
	PossibleCauses       []string  `json:"possible_causes"`
	PatternInsights      []string  `json:"pattern_insights"`
	RiskLevel            RiskLevel `json:"risk_level"`
	ImmediateSteps       []string  `json:"immediate_steps"`
	DailyRecommendations []string  `json:"daily_recommendations"`
	Summary              string    `json:"summary"`
}

// Clone returns a deep copy so callers can't alias list fields.
func (a AnalysisResult) Clone() AnalysisResult {
	out := a
	out.PossibleCauses = cloneStrings(a.PossibleCauses)
	out.PatternInsights = cloneStrings(a.PatternInsights)
	out.ImmediateSteps = cloneStrings(a.ImmediateSteps)
	out.DailyRecommendations = cloneStrings(a.DailyRecommendations)
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func DefaultSensors() SensorSnapshot {
	return SensorSnapshot{
		HeartRate:   72,
		Temperature: 36.6,
		Steps:       4500,
		SleepHours:  7.5,
		StressLevel: 3,
		BloodOxygen: 98,
	}
}

func DefaultContext() UserContext {
	return UserContext{
		Symptoms:  "",
		Lifestyle: LifestyleModeratelyActive,
		Diet:      DietBalanced,
	}
}
