package flip

import (
	"strconv"
	"strings"
	"time"

	"github.com/tanema/gween/ease"
)

// Timing pairs an easing curve with a duration.
//
// Curve holds progress values at evenly spaced points in time, the same
// distribution CSS linear() uses. An empty curve is linear.
type Timing struct {
	Curve    []float64     `yaml:"curve" json:"curve"`
	Duration time.Duration `yaml:"duration" json:"duration"`
}

// At returns the eased progress at linear progress p in [0, 1] by
// interpolating between neighbouring samples.
func (t Timing) At(p float64) float64 {
	if p <= 0 {
		if len(t.Curve) > 0 {
			return t.Curve[0]
		}
		return 0
	}
	if p >= 1 {
		if len(t.Curve) > 0 {
			return t.Curve[len(t.Curve)-1]
		}
		return 1
	}
	n := len(t.Curve)
	if n < 2 {
		return p
	}
	pos := p * float64(n-1)
	i := int(pos)
	frac := pos - float64(i)
	return t.Curve[i] + (t.Curve[i+1]-t.Curve[i])*frac
}

// Ease returns the curve as a gween easing function.
func (t Timing) Ease() ease.TweenFunc {
	return func(elapsed, begin, change, duration float32) float32 {
		if duration <= 0 {
			return begin + change
		}
		return begin + change*float32(t.At(float64(elapsed/duration)))
	}
}

// Seconds returns the duration in seconds as gween expects it.
func (t Timing) Seconds() float32 {
	return float32(t.Duration.Seconds())
}

// CSS renders the curve as a CSS linear() easing function.
func (t Timing) CSS() string {
	var b strings.Builder
	b.WriteString("linear(")
	for i, v := range t.Curve {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(v, 'f', 4, 64))
	}
	b.WriteString(")")
	return b.String()
}
