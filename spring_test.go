package flip

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeDefault(t *testing.T) {
	timing, err := Synthesize(DefaultSpring())
	require.NoError(t, err)

	assert.Len(t, timing.Curve, DefaultSpring().SampleRate+1)
	assert.InDelta(t, 0, timing.Curve[0], 1e-12)
	assert.Equal(t, 1.0, timing.Curve[len(timing.Curve)-1])
	assert.Equal(t, 531, int(timing.Duration/time.Millisecond))
	assert.Equal(t, DefaultTiming, timing, "precomputed default must match")
}

func TestSynthesizeRejectsNonPositive(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spring)
		param  string
	}{
		{"mass", func(s *Spring) { s.Mass = 0 }, "mass"},
		{"damping", func(s *Spring) { s.Damping = -1 }, "damping"},
		{"stiffness", func(s *Spring) { s.Stiffness = 0 }, "stiffness"},
		{"samples", func(s *Spring) { s.SampleRate = 0 }, "samples"},
		{"nan", func(s *Spring) { s.Mass = math.NaN() }, "mass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSpring()
			tt.mutate(&s)
			_, err := Synthesize(s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameter))

			var perr *ParamError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.param, perr.Name)
		})
	}
}

func TestSynthesizeNegativeVelocityAllowed(t *testing.T) {
	s := DefaultSpring()
	s.Velocity = -5
	_, err := Synthesize(s)
	assert.NoError(t, err)
}

func TestSynthesizeUnderdampedOvershoots(t *testing.T) {
	timing, err := Synthesize(Spring{Mass: 1, Damping: 5, Stiffness: 170, SampleRate: 120})
	require.NoError(t, err)

	peak := 0.0
	for _, v := range timing.Curve {
		peak = math.Max(peak, v)
	}
	assert.Greater(t, peak, 1.0)
}

func TestSynthesizeKeepsOvershootUnclamped(t *testing.T) {
	s := DefaultSpring()
	s.Velocity = 50
	timing, err := Synthesize(s)
	require.NoError(t, err)

	peak := 0.0
	for _, v := range timing.Curve {
		peak = math.Max(peak, v)
	}
	assert.Greater(t, peak, 1.5, "a pushed spring overshoots well past the target")
	assert.InDelta(t, 0, timing.Curve[0], 1e-12)
	assert.Equal(t, 1.0, timing.Curve[len(timing.Curve)-1])
	assert.Equal(t, DefaultTiming.Duration, timing.Duration, "velocity does not change the settle duration")
}

func TestSynthesizeOverdampedIsMonotonic(t *testing.T) {
	s := Spring{Mass: 1, Damping: 60, Stiffness: 100, SampleRate: 50}
	require.Greater(t, s.DampingRatio(), 1.0)

	timing, err := Synthesize(s)
	require.NoError(t, err)
	for i := 1; i < len(timing.Curve); i++ {
		assert.GreaterOrEqual(t, timing.Curve[i], timing.Curve[i-1])
	}
}

func TestSynthesizeCriticallyDamped(t *testing.T) {
	s := Spring{Mass: 1, Damping: 20, Stiffness: 100, SampleRate: 10}
	require.Equal(t, 1.0, s.DampingRatio())

	timing, err := Synthesize(s)
	require.NoError(t, err)
	want := time.Duration(math.Log(1000) / 10 * float64(time.Second))
	assert.Equal(t, want, timing.Duration)
	assert.InDelta(t, 1, timing.Curve[len(timing.Curve)-2], 1e-2)
}

func TestSynthesizeCapsDuration(t *testing.T) {
	timing, err := Synthesize(Spring{Mass: 1, Damping: 0.01, Stiffness: 1, SampleRate: 5})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, timing.Duration)
}

func TestSynthesizeSingleSample(t *testing.T) {
	s := DefaultSpring()
	s.SampleRate = 1
	timing, err := Synthesize(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, timing.Curve)
}

func TestSpringVelocityLeadsResponse(t *testing.T) {
	still := DefaultSpring()
	pushed := DefaultSpring()
	pushed.Velocity = 10

	assert.Greater(t, pushed.Position(0.05), still.Position(0.05))
	assert.InDelta(t, 0, pushed.Position(0), 1e-12)
}

func TestSpringDerivedQuantities(t *testing.T) {
	s := Spring{Mass: 4, Damping: 8, Stiffness: 16}
	assert.Equal(t, 2.0, s.NaturalFrequency())
	assert.Equal(t, 0.5, s.DampingRatio())
}
