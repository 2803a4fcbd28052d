package flip

import (
	"math"
	"strconv"
	"strings"
)

const (
	// translateThreshold is the minimum |tx|+|ty| worth animating, in pixels.
	translateThreshold = 1.0
	// scaleThreshold is the minimum |sx-1|+|sy-1| worth animating.
	scaleThreshold = 0.01
)

// StyleDelta is a visual transform applied to a node. Nil fields are absent.
// A nil *StyleDelta means the change is not worth animating.
type StyleDelta struct {
	Translate *Vec2    `yaml:"translate,omitempty"`
	Scale     *Vec2    `yaml:"scale,omitempty"`
	Opacity   *float64 `yaml:"opacity,omitempty"`
}

// TranslateValue renders the translation as "<x>px <y>px", or "" when absent.
func (d *StyleDelta) TranslateValue() string {
	if d == nil || d.Translate == nil {
		return ""
	}
	return formatNumber(d.Translate.X) + "px " + formatNumber(d.Translate.Y) + "px"
}

// ScaleValue renders the scale as "<sx> <sy>", or "" when absent.
func (d *StyleDelta) ScaleValue() string {
	if d == nil || d.Scale == nil {
		return ""
	}
	return formatNumber(d.Scale.X) + " " + formatNumber(d.Scale.Y)
}

// String renders the delta as semicolon separated CSS-like declarations.
func (d *StyleDelta) String() string {
	if d == nil {
		return "<none>"
	}
	var parts []string
	if d.Translate != nil {
		parts = append(parts, "translate: "+d.TranslateValue())
	}
	if d.Scale != nil {
		parts = append(parts, "scale: "+d.ScaleValue())
	}
	if d.Opacity != nil {
		parts = append(parts, "opacity: "+formatNumber(*d.Opacity))
	}
	return strings.Join(parts, "; ")
}

// Delta compares two rects in the same coordinate frame. The translation is
// measured between their midpoints and the scale is to.size / from.size.
//
// Delta returns nil when the translation is under one pixel and the scale
// change is under one percent; otherwise it carries whichever component
// crossed its threshold.
func Delta(from, to Rect) *StyleDelta {
	fc, tc := from.Center(), to.Center()
	tx := tc.X - fc.X
	ty := tc.Y - fc.Y

	sx := ratio(to.Width, from.Width)
	sy := ratio(to.Height, from.Height)

	moved := math.Abs(tx)+math.Abs(ty) >= translateThreshold
	scaled := math.Abs(sx-1)+math.Abs(sy-1) >= scaleThreshold
	if !moved && !scaled {
		return nil
	}

	d := &StyleDelta{}
	if moved {
		d.Translate = &Vec2{X: tx, Y: ty}
	}
	if scaled {
		d.Scale = &Vec2{X: sx, Y: sy}
	}
	return d
}

// ratio returns num/den, or 1 when den is zero (a collapsed box has no
// meaningful scale).
func ratio(num, den float64) float64 {
	if den == 0 {
		return 1
	}
	return num / den
}

func formatNumber(v float64) string {
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
