package flip

import (
	"math"
	"time"
)

const (
	// settleThreshold is the residual displacement at which a spring is
	// considered visually at rest.
	settleThreshold = 1e-3

	// maxSpringDuration bounds the length of a synthesized animation.
	maxSpringDuration = 10 * time.Second
)

// Spring describes a damped harmonic oscillator driven by a unit step.
// All fields except Velocity must be strictly positive.
type Spring struct {
	Mass      float64 `yaml:"mass"`
	Damping   float64 `yaml:"damping"`
	Stiffness float64 `yaml:"stiffness"`
	// Velocity is the initial velocity toward the target in units of the
	// full distance per second.
	Velocity float64 `yaml:"velocity"`
	// SampleRate is the number of points sampled across the duration.
	SampleRate int `yaml:"samples"`
}

// DefaultSpring returns the spring used when no timing is configured: a
// near critically damped response settling in roughly half a second.
func DefaultSpring() Spring {
	return Spring{
		Mass:       1,
		Damping:    26,
		Stiffness:  170,
		Velocity:   0,
		SampleRate: 60,
	}
}

// DampingRatio returns ζ = damping / (2·√(stiffness·mass)).
func (s Spring) DampingRatio() float64 {
	return s.Damping / (2 * math.Sqrt(s.Stiffness*s.Mass))
}

// NaturalFrequency returns ω₀ = √(stiffness/mass) in radians per second.
func (s Spring) NaturalFrequency() float64 {
	return math.Sqrt(s.Stiffness / s.Mass)
}

// Validate returns a *ParamError for the first parameter that is not
// strictly positive.
func (s Spring) Validate() error {
	switch {
	case !(s.Mass > 0):
		return &ParamError{Name: "mass", Value: s.Mass}
	case !(s.Damping > 0):
		return &ParamError{Name: "damping", Value: s.Damping}
	case !(s.Stiffness > 0):
		return &ParamError{Name: "stiffness", Value: s.Stiffness}
	case s.SampleRate <= 0:
		return &ParamError{Name: "samples", Value: float64(s.SampleRate)}
	}
	return nil
}

// Position returns the step response y(t) of the spring, starting at 0 and
// settling at 1. Underdamped springs overshoot past 1.
func (s Spring) Position(t float64) float64 {
	return 1 - s.displacement(t)
}

// displacement is the remaining distance to the target at time t, with
// displacement(0) = 1 and displacement'(0) = -Velocity.
func (s Spring) displacement(t float64) float64 {
	zeta := s.DampingRatio()
	w0 := s.NaturalFrequency()
	v0 := s.Velocity

	switch {
	case zeta < 1:
		wd := w0 * math.Sqrt(1-zeta*zeta)
		env := math.Exp(-zeta * w0 * t)
		return env * (math.Cos(wd*t) + (zeta*w0-v0)/wd*math.Sin(wd*t))
	case zeta == 1:
		return math.Exp(-w0*t) * (1 + (w0-v0)*t)
	default:
		root := math.Sqrt(zeta*zeta - 1)
		r1 := -w0 * (zeta - root)
		r2 := -w0 * (zeta + root)
		c2 := (-v0 - r1) / (r2 - r1)
		c1 := 1 - c2
		return c1*math.Exp(r1*t) + c2*math.Exp(r2*t)
	}
}

// settleDuration returns how long the response takes to decay below
// settleThreshold, measured in multiples of its slowest time constant and
// capped at maxSpringDuration.
func (s Spring) settleDuration() time.Duration {
	zeta := s.DampingRatio()
	w0 := s.NaturalFrequency()

	var decay float64
	switch {
	case zeta < 1:
		decay = zeta * w0
	case zeta == 1:
		decay = w0
	default:
		decay = w0 * (zeta - math.Sqrt(zeta*zeta-1))
	}

	seconds := math.Log(1/settleThreshold) / decay
	if math.IsNaN(seconds) || seconds > maxSpringDuration.Seconds() {
		return maxSpringDuration
	}
	return time.Duration(seconds * float64(time.Second))
}

// Synthesize samples the spring's step response into an easing curve.
//
// The curve holds SampleRate points spaced evenly over the settle duration,
// followed by a final 1.0 so the animation always lands on its target.
// Values are progress toward the target (0 is the start, 1 the target) and
// are not clamped: an underdamped or strongly pushed spring overshoots past
// 1, and a negative velocity can dip below 0.
// Synthesize fails with a *ParamError (matching ErrInvalidParameter) when a
// parameter is not strictly positive.
func Synthesize(s Spring) (Timing, error) {
	if err := s.Validate(); err != nil {
		return Timing{}, err
	}

	dur := s.settleDuration()
	seconds := dur.Seconds()

	curve := make([]float64, 0, s.SampleRate+1)
	for i := 0; i < s.SampleRate; i++ {
		var t float64
		if s.SampleRate > 1 {
			t = seconds * float64(i) / float64(s.SampleRate-1)
		}
		curve = append(curve, s.Position(t))
	}
	curve = append(curve, 1)

	return Timing{Curve: curve, Duration: dur}, nil
}

// DefaultTiming is the synthesized timing of DefaultSpring, computed once.
var DefaultTiming = mustSynthesize(DefaultSpring())

func mustSynthesize(s Spring) Timing {
	t, err := Synthesize(s)
	if err != nil {
		panic(err)
	}
	return t
}
