package history

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthguard/internal/types/wellness"
)

// fixedSource returns the same value on every draw.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
}

func TestGenerateAlwaysTwelvePointsWithinBounds(t *testing.T) {
	g := New(WithRand(rand.New(rand.NewPCG(1, 2))))
	inputs := []wellness.SensorSnapshot{
		wellness.DefaultSensors(),
		{HeartRate: 40, StressLevel: 1},
		{HeartRate: 180, StressLevel: 10},
		{HeartRate: 0, StressLevel: -3},
		{HeartRate: 999, StressLevel: 99},
	}
	for _, in := range inputs {
		for run := 0; run < 50; run++ {
			pts := g.Generate(in)
			require.Len(t, pts, Points)
			for _, p := range pts {
				assert.GreaterOrEqual(t, p.HeartRate, wellness.MinHeartRate)
				assert.LessOrEqual(t, p.HeartRate, wellness.MaxHeartRate)
				assert.GreaterOrEqual(t, p.Stress, wellness.MinStress)
				assert.LessOrEqual(t, p.Stress, wellness.MaxStress)
			}
		}
	}
}

func TestGenerateJitterStaysWithinWidth(t *testing.T) {
	g := New()
	in := wellness.SensorSnapshot{HeartRate: 100, StressLevel: 5}
	for run := 0; run < 200; run++ {
		for _, p := range g.Generate(in) {
			assert.InDelta(t, 100, p.HeartRate, 5)
			assert.InDelta(t, 5, p.Stress, 1)
		}
	}
}

func TestGenerateTimesAreHourlyEndingNow(t *testing.T) {
	g := New(WithClock(fixedClock), WithLocation(time.UTC), WithRand(fixedSource(0.5)))
	pts := g.Generate(wellness.DefaultSensors())

	assert.Equal(t, "04:30", pts[0].Time)
	assert.Equal(t, "15:30", pts[Points-1].Time)
	assert.True(t, pts[Points-1].At.Equal(fixedClock()))
	for i := 1; i < len(pts); i++ {
		assert.Equal(t, Interval, pts[i].At.Sub(pts[i-1].At))
	}
}

func TestGenerateWithoutJitterEchoesSnapshot(t *testing.T) {
	g := New(WithClock(fixedClock), WithLocation(time.UTC), WithRand(fixedSource(0.5)))
	pts := g.Generate(wellness.SensorSnapshot{HeartRate: 88, StressLevel: 6})

	want := make([]wellness.HistoricalPoint, Points)
	for i := range want {
		at := fixedClock().Add(-time.Duration(Points-1-i) * time.Hour)
		want[i] = wellness.HistoricalPoint{Time: at.Format(TimeLayout), At: at, HeartRate: 88, Stress: 6}
	}
	if diff := cmp.Diff(want, pts); diff != "" {
		t.Fatalf("Generate() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateExtremeJitterClamps(t *testing.T) {
	low := New(WithRand(fixedSource(0))).Generate(wellness.SensorSnapshot{HeartRate: 42, StressLevel: 1})
	high := New(WithRand(fixedSource(0.9999))).Generate(wellness.SensorSnapshot{HeartRate: 178, StressLevel: 10})
	for i := range low {
		assert.Equal(t, wellness.MinHeartRate, low[i].HeartRate)
		assert.Equal(t, wellness.MinStress, low[i].Stress)
		assert.Equal(t, wellness.MaxHeartRate, high[i].HeartRate)
		assert.Equal(t, wellness.MaxStress, high[i].Stress)
	}
}
