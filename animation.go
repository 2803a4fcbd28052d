package flip

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const maxTweenFields = 5

// Tween animates the visual fields of a Node (translation, scale, alpha)
// simultaneously. Create one with TweenFrom or TweenTo and either register it
// with an Animator or call Update(dt) each frame yourself. Values are written
// straight to the node, which is marked dirty.
//
// Tween implements Animation and Reverser. If the target node is disposed or
// the bound Token is cancelled, the tween stops where it is and settles.
type Tween struct {
	Settlement

	tweens [maxTweenFields]*gween.Tween
	begin  [maxTweenFields]float32
	fields [maxTweenFields]*float64
	active [maxTweenFields]bool
	count  int

	target   *Node
	easing   ease.TweenFunc
	duration float32
	token    *Token
	delay    float32
	elapsed  float32
	reversed bool

	Done bool
}

// TweenFrom snaps the node to style and tweens every field style names back
// to identity (translation 0, scale 1, alpha 1). This is the "invert, play"
// half of FLIP, and also how nodes enter from a hidden style.
func TweenFrom(node *Node, style *StyleDelta, timing Timing) *Tween {
	g := newTween(node, timing)
	if style == nil {
		g.finish()
		return g
	}
	if style.Translate != nil {
		node.TranslateX, node.TranslateY = style.Translate.X, style.Translate.Y
		g.add(&node.TranslateX, 0)
		g.add(&node.TranslateY, 0)
	}
	if style.Scale != nil {
		node.ScaleX, node.ScaleY = style.Scale.X, style.Scale.Y
		g.add(&node.ScaleX, 1)
		g.add(&node.ScaleY, 1)
	}
	if style.Opacity != nil {
		node.Alpha = *style.Opacity
		g.add(&node.Alpha, 1)
	}
	node.MarkDirty()
	return g
}

// TweenTo tweens every field style names from its current value to the
// style's value. Exits use it so an item that is still entering leaves from
// wherever it is on screen.
func TweenTo(node *Node, style *StyleDelta, timing Timing) *Tween {
	g := newTween(node, timing)
	if style == nil {
		g.finish()
		return g
	}
	if style.Translate != nil {
		g.add(&node.TranslateX, style.Translate.X)
		g.add(&node.TranslateY, style.Translate.Y)
	}
	if style.Scale != nil {
		g.add(&node.ScaleX, style.Scale.X)
		g.add(&node.ScaleY, style.Scale.Y)
	}
	if style.Opacity != nil {
		g.add(&node.Alpha, *style.Opacity)
	}
	return g
}

func newTween(node *Node, timing Timing) *Tween {
	return &Tween{
		target:   node,
		easing:   timing.Ease(),
		duration: timing.Seconds(),
	}
}

func (g *Tween) add(field *float64, to float64) {
	i := g.count
	g.begin[i] = float32(*field)
	g.fields[i] = field
	g.tweens[i] = gween.New(g.begin[i], float32(to), g.duration, g.easing)
	g.active[i] = true
	g.count++
}

// Delay postpones the start of the tween. Values set by TweenFrom are
// already applied, so a delayed move holds its inverted position until it
// starts playing.
func (g *Tween) Delay(d time.Duration) {
	g.delay = float32(d.Seconds())
}

// Bind ties the tween to a cancellation token.
func (g *Tween) Bind(token *Token) {
	g.token = token
}

// Update advances all fields by dt seconds and writes the values to the
// target node. The tween settles when every field reaches its end value.
func (g *Tween) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.finish()
		return
	}
	if g.token.Cancelled() && !g.reversed {
		g.finish()
		return
	}

	if g.delay > 0 {
		g.delay -= dt
		if g.delay > 0 {
			return
		}
		dt = -g.delay
		g.delay = 0
	}
	g.elapsed += dt

	allDone := true
	for i := 0; i < g.count; i++ {
		if !g.active[i] {
			continue
		}
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}

	if g.target != nil {
		g.target.MarkDirty()
	}
	if allDone {
		g.finish()
	}
}

// Reverse plays the tween back from its current values to the values it
// started from, over the time it has been playing so far.
func (g *Tween) Reverse() {
	if g.Done || g.reversed {
		return
	}
	g.reversed = true

	if g.elapsed <= 0 {
		for i := 0; i < g.count; i++ {
			if g.active[i] {
				*g.fields[i] = float64(g.begin[i])
			}
		}
		if g.target != nil {
			g.target.MarkDirty()
		}
		g.finish()
		return
	}

	for i := 0; i < g.count; i++ {
		if !g.active[i] {
			continue
		}
		g.tweens[i] = gween.New(float32(*g.fields[i]), g.begin[i], g.elapsed, g.easing)
	}
	g.elapsed = 0
}

// Reversed reports whether Reverse has been called.
func (g *Tween) Reversed() bool {
	return g.reversed
}

// releaseOverlap stops animating any field that other also animates. A tween
// left with no fields settles.
func (g *Tween) releaseOverlap(other *Tween) {
	remaining := 0
	for i := 0; i < g.count; i++ {
		if !g.active[i] {
			continue
		}
		for j := 0; j < other.count; j++ {
			if g.fields[i] == other.fields[j] {
				g.active[i] = false
				break
			}
		}
		if g.active[i] {
			remaining++
		}
	}
	if remaining == 0 {
		g.finish()
	}
}

func (g *Tween) finish() {
	g.Done = true
	g.Settle(nil)
}
