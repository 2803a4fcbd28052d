package flip

import (
	"fmt"
)

// Animation is a running visual transition. OnSettled registers a callback
// that fires exactly once, when the animation completes or is abandoned; err
// is non-nil when the animation failed. Callbacks registered after settling
// fire immediately.
type Animation interface {
	OnSettled(fn func(err error))
}

// Reverser is implemented by animations that can play back toward their
// starting state after being superseded.
type Reverser interface {
	Reverse()
}

// Token is a cooperative cancellation flag shared between the Scheduler and
// one in-flight enter or exit animation. A nil *Token is never cancelled.
type Token struct {
	cancelled bool
}

// NewToken returns a live token.
func NewToken() *Token {
	return &Token{}
}

// Cancel invalidates the token. Cancelling twice is a no-op.
func (t *Token) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Cancelled reports whether the transition owning this token was superseded.
func (t *Token) Cancelled() bool {
	return t != nil && t.cancelled
}

// Settlement implements the exactly-once settled notification. Embed it in
// custom Animation types and call Settle when done.
type Settlement struct {
	settled bool
	err     error
	waiters []func(error)
}

// OnSettled implements Animation.
func (s *Settlement) OnSettled(fn func(err error)) {
	if s.settled {
		fn(s.err)
		return
	}
	s.waiters = append(s.waiters, fn)
}

// Settle fires every registered callback with err. Only the first call has
// any effect.
func (s *Settlement) Settle(err error) {
	if s.settled {
		return
	}
	s.settled = true
	s.err = err
	waiters := s.waiters
	s.waiters = nil
	for _, fn := range waiters {
		fn(err)
	}
}

// IsSettled reports whether Settle has been called.
func (s *Settlement) IsSettled() bool {
	return s.settled
}

// Settled returns an Animation that has already settled with err.
func Settled(err error) Animation {
	s := &Settlement{}
	s.Settle(err)
	return s
}

// Animator advances running tweens once per frame. It also provides the
// default move, enter and exit callbacks for *Node handles.
//
// Like the rest of the scene graph it is single-threaded: call Update from
// the frame loop that owns the nodes.
type Animator struct {
	running []*Tween
}

// NewAnimator creates an empty Animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Start registers a tween so Update advances it. Fields the tween animates
// are released by any other running tween on the same node.
func (a *Animator) Start(tw *Tween) {
	for _, other := range a.running {
		if other != tw && other.target == tw.target && !other.Done {
			other.releaseOverlap(tw)
		}
	}
	a.running = append(a.running, tw)
}

// Update advances every running tween by dt seconds and drops the ones that
// settled. Tweens started from inside a settled callback are first advanced
// on the next Update.
func (a *Animator) Update(dt float32) {
	n := len(a.running)
	for i := 0; i < n; i++ {
		a.running[i].Update(dt)
	}

	kept := a.running[:0]
	for _, tw := range a.running {
		if tw.Done {
			tw.Settle(nil)
			continue
		}
		kept = append(kept, tw)
	}
	for i := len(kept); i < len(a.running); i++ {
		a.running[i] = nil
	}
	a.running = kept
}

// Len returns the number of running tweens.
func (a *Animator) Len() int {
	return len(a.running)
}

// Move is the default KindMove callback: it applies the inverse delta to the
// node immediately and tweens it back to identity.
func (a *Animator) Move(handle any, style *StyleDelta, opts AnimateOptions) (Animation, error) {
	node, err := nodeHandle(handle)
	if err != nil {
		return nil, err
	}
	tw := TweenFrom(node, additive(node, style), opts.Timing)
	tw.Delay(opts.Delay)
	a.Start(tw)
	return tw, nil
}

// Enter is the default KindEnter callback: the node starts at style and
// tweens to identity.
func (a *Animator) Enter(handle any, style *StyleDelta, opts AnimateOptions) (Animation, error) {
	node, err := nodeHandle(handle)
	if err != nil {
		return nil, err
	}
	tw := TweenFrom(node, style, opts.Timing)
	tw.Delay(opts.Delay)
	tw.Bind(opts.Token)
	a.Start(tw)
	return tw, nil
}

// Exit is the default KindExit callback: the node tweens from its current
// visual state to style.
func (a *Animator) Exit(handle any, style *StyleDelta, opts AnimateOptions) (Animation, error) {
	node, err := nodeHandle(handle)
	if err != nil {
		return nil, err
	}
	tw := TweenTo(node, style, opts.Timing)
	tw.Delay(opts.Delay)
	tw.Bind(opts.Token)
	a.Start(tw)
	return tw, nil
}

func nodeHandle(handle any) (*Node, error) {
	node, ok := handle.(*Node)
	if !ok || node == nil {
		return nil, fmt.Errorf("unsupported handle type %T", handle)
	}
	if node.IsDisposed() {
		return nil, fmt.Errorf("node %q is disposed", node.Name)
	}
	return node, nil
}

// additive folds the node's in-flight visual transform into a new inverse
// delta so an interrupted move continues from where it is on screen.
func additive(node *Node, style *StyleDelta) *StyleDelta {
	if style == nil {
		return nil
	}
	out := *style
	if node.TranslateX != 0 || node.TranslateY != 0 {
		t := Vec2{X: node.TranslateX, Y: node.TranslateY}
		if style.Translate != nil {
			t.X += style.Translate.X
			t.Y += style.Translate.Y
		}
		out.Translate = &t
	}
	if node.ScaleX != 1 || node.ScaleY != 1 {
		s := Vec2{X: node.ScaleX, Y: node.ScaleY}
		if style.Scale != nil {
			s.X *= style.Scale.X
			s.Y *= style.Scale.Y
		}
		out.Scale = &s
	}
	return &out
}
