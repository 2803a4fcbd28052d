package flip

import (
	"errors"
	"math"
	"testing"
	"time"
)

// linearSecond is a linear timing lasting exactly one second.
var linearSecond = Timing{Duration: time.Second}

func TestTweenFromReturnsToIdentity(t *testing.T) {
	node := NewBox("n", 10, 10, ColorWhite)

	g := TweenFrom(node, &StyleDelta{Translate: &Vec2{X: -20, Y: 40}}, linearSecond)
	if node.TranslateX != -20 || node.TranslateY != 40 {
		t.Fatalf("TweenFrom should snap to the style, got (%v, %v)", node.TranslateX, node.TranslateY)
	}

	g.Update(0.5)
	if math.Abs(node.TranslateX+10) > 0.01 || math.Abs(node.TranslateY-20) > 0.01 {
		t.Errorf("halfway = (%v, %v), want (-10, 20)", node.TranslateX, node.TranslateY)
	}

	g.Update(0.5)
	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if node.TranslateX != 0 || node.TranslateY != 0 {
		t.Errorf("end = (%v, %v), want (0, 0)", node.TranslateX, node.TranslateY)
	}
}

func TestTweenFromHiddenStyle(t *testing.T) {
	node := NewBox("n", 10, 10, ColorWhite)

	g := TweenFrom(node, DefaultHiddenStyle(), linearSecond)
	if node.Alpha != 0 || node.ScaleX != 0.9 {
		t.Fatalf("start alpha=%v scale=%v", node.Alpha, node.ScaleX)
	}

	g.Update(0.5)
	g.Update(0.5)
	if math.Abs(node.Alpha-1) > 1e-6 || math.Abs(node.ScaleX-1) > 1e-6 || math.Abs(node.ScaleY-1) > 1e-6 {
		t.Errorf("end alpha=%v scale=(%v, %v)", node.Alpha, node.ScaleX, node.ScaleY)
	}
}

func TestTweenToReachesStyle(t *testing.T) {
	node := NewBox("n", 10, 10, ColorWhite)
	zero := 0.0

	g := TweenTo(node, &StyleDelta{Opacity: &zero, Scale: &Vec2{X: 0.5, Y: 0.5}}, linearSecond)
	if node.Alpha != 1 {
		t.Fatal("TweenTo should not snap")
	}

	g.Update(0.5)
	g.Update(0.5)
	if !g.Done {
		t.Fatal("expected Done")
	}
	if node.Alpha > 1e-6 || math.Abs(node.ScaleX-0.5) > 1e-6 {
		t.Errorf("end alpha=%v scale=%v", node.Alpha, node.ScaleX)
	}
}

func TestTweenNilStyleFinishesImmediately(t *testing.T) {
	node := NewContainer("n")
	settled := false

	g := TweenFrom(node, nil, linearSecond)
	g.OnSettled(func(error) { settled = true })

	if !g.Done || !settled {
		t.Error("nil style should settle at once")
	}
}

func TestTweenZeroDurationLandsOnTarget(t *testing.T) {
	node := NewContainer("n")

	g := TweenFrom(node, &StyleDelta{Translate: &Vec2{X: 30}}, Timing{})
	g.Update(1.0 / 60)

	if !g.Done || node.TranslateX != 0 {
		t.Errorf("Done=%v TranslateX=%v", g.Done, node.TranslateX)
	}
}

func TestTweenDelayHoldsInvertedPosition(t *testing.T) {
	node := NewContainer("n")

	g := TweenFrom(node, &StyleDelta{Translate: &Vec2{X: 100}}, linearSecond)
	g.Delay(750 * time.Millisecond)

	g.Update(0.5)
	if node.TranslateX != 100 {
		t.Errorf("during delay TranslateX = %v, want 100", node.TranslateX)
	}

	// 0.25s of delay remain; the other 0.25s advances the tween.
	g.Update(0.5)
	if math.Abs(node.TranslateX-75) > 0.01 {
		t.Errorf("after delay TranslateX = %v, want 75", node.TranslateX)
	}
}

func TestTweenCancelledTokenStops(t *testing.T) {
	node := NewContainer("n")
	tok := NewToken()

	g := TweenFrom(node, &StyleDelta{Translate: &Vec2{X: 100}}, linearSecond)
	g.Bind(tok)
	g.Update(0.5)
	tok.Cancel()
	g.Update(0.25)

	if !g.Done {
		t.Fatal("cancelled tween should be Done")
	}
	if math.Abs(node.TranslateX-50) > 0.01 {
		t.Errorf("TranslateX = %v, should stay where it was (50)", node.TranslateX)
	}
}

func TestTweenReverse(t *testing.T) {
	node := NewContainer("n")
	zero := 0.0

	g := TweenTo(node, &StyleDelta{Opacity: &zero}, linearSecond)
	g.Update(0.5)
	if math.Abs(node.Alpha-0.5) > 0.01 {
		t.Fatalf("halfway alpha = %v", node.Alpha)
	}

	g.Reverse()
	if !g.Reversed() {
		t.Error("Reversed() = false")
	}
	g.Update(0.25)
	if math.Abs(node.Alpha-0.75) > 0.01 {
		t.Errorf("reversing alpha = %v, want 0.75", node.Alpha)
	}
	g.Update(0.25)
	if !g.Done || math.Abs(node.Alpha-1) > 1e-6 {
		t.Errorf("Done=%v alpha=%v, want back at 1", g.Done, node.Alpha)
	}
}

func TestTweenReverseIgnoresCancelledToken(t *testing.T) {
	node := NewContainer("n")
	zero := 0.0
	tok := NewToken()

	g := TweenTo(node, &StyleDelta{Opacity: &zero}, linearSecond)
	g.Bind(tok)
	g.Update(0.5)
	tok.Cancel()
	g.Reverse()
	g.Update(0.5)

	if !g.Done || math.Abs(node.Alpha-1) > 1e-6 {
		t.Errorf("Done=%v alpha=%v, want reversal to complete", g.Done, node.Alpha)
	}
}

func TestTweenReverseBeforeStart(t *testing.T) {
	node := NewContainer("n")
	zero := 0.0

	g := TweenTo(node, &StyleDelta{Opacity: &zero}, linearSecond)
	g.Delay(time.Second)
	g.Update(0.5)
	g.Reverse()

	if !g.Done || node.Alpha != 1 {
		t.Errorf("Done=%v alpha=%v, want immediate restore", g.Done, node.Alpha)
	}
}

func TestTweenDisposedNodeSettles(t *testing.T) {
	node := NewContainer("n")
	g := TweenFrom(node, &StyleDelta{Translate: &Vec2{X: 10}}, linearSecond)

	node.Dispose()
	g.Update(0.1)

	if !g.Done {
		t.Error("tween on disposed node should settle")
	}
}

func TestSettlementExactlyOnce(t *testing.T) {
	var s Settlement
	calls := 0
	s.OnSettled(func(error) { calls++ })

	s.Settle(nil)
	s.Settle(errors.New("late"))
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	var got error = errors.New("sentinel")
	s.OnSettled(func(err error) { got = err })
	if got != nil {
		t.Errorf("late subscriber got %v, want the first settle's nil error", got)
	}
	if !s.IsSettled() {
		t.Error("IsSettled = false")
	}
}

func TestSettledCarriesError(t *testing.T) {
	want := errors.New("boom")
	var got error
	Settled(want).OnSettled(func(err error) { got = err })
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokenNil(t *testing.T) {
	var tok *Token
	tok.Cancel()
	if tok.Cancelled() {
		t.Error("nil token should never be cancelled")
	}
}

// --- Animator ---

func TestAnimatorUpdateDropsSettled(t *testing.T) {
	a := NewAnimator()
	node := NewContainer("n")
	settled := 0

	tw := TweenFrom(node, &StyleDelta{Translate: &Vec2{X: 10}}, linearSecond)
	tw.OnSettled(func(error) { settled++ })
	a.Start(tw)
	if a.Len() != 1 {
		t.Fatalf("Len = %d, want 1", a.Len())
	}

	a.Update(0.5)
	a.Update(0.5)
	if a.Len() != 0 || settled != 1 {
		t.Errorf("Len=%d settled=%d, want 0 and 1", a.Len(), settled)
	}
}

func TestAnimatorReleasesOverlappingFields(t *testing.T) {
	a := NewAnimator()
	node := NewContainer("n")
	zero := 0.0

	first := TweenTo(node, &StyleDelta{Translate: &Vec2{X: 10}, Opacity: &zero}, linearSecond)
	a.Start(first)
	second := TweenTo(node, &StyleDelta{Translate: &Vec2{X: 50}}, linearSecond)
	a.Start(second)

	if first.Done {
		t.Fatal("first still owns alpha and should keep running")
	}
	a.Update(0.5)
	a.Update(0.5)
	if math.Abs(node.TranslateX-50) > 1e-6 {
		t.Errorf("TranslateX = %v, want the newer tween's 50", node.TranslateX)
	}

	third := TweenTo(node, &StyleDelta{Translate: &Vec2{X: 0}}, linearSecond)
	fourth := TweenTo(node, &StyleDelta{Translate: &Vec2{X: 1}}, linearSecond)
	a.Start(third)
	a.Start(fourth)
	if !third.Done {
		t.Error("a tween left with no fields should settle")
	}
}

func TestAnimatorMoveIsAdditive(t *testing.T) {
	a := NewAnimator()
	node := NewBox("n", 10, 10, ColorWhite)
	node.TranslateX = 5

	anim, err := a.Move(node, &StyleDelta{Translate: &Vec2{X: 10, Y: -4}}, AnimateOptions{Kind: KindMove, Timing: linearSecond})
	if err != nil {
		t.Fatal(err)
	}
	if node.TranslateX != 15 || node.TranslateY != -4 {
		t.Errorf("start = (%v, %v), want (15, -4)", node.TranslateX, node.TranslateY)
	}

	settled := false
	anim.OnSettled(func(error) { settled = true })
	a.Update(1)
	if !settled || node.TranslateX != 0 {
		t.Errorf("settled=%v TranslateX=%v", settled, node.TranslateX)
	}
}

func TestAnimatorEnterAndExit(t *testing.T) {
	a := NewAnimator()
	node := NewBox("n", 10, 10, ColorWhite)
	hidden := DefaultHiddenStyle()
	opts := AnimateOptions{Timing: linearSecond}

	if _, err := a.Enter(node, hidden, opts); err != nil {
		t.Fatal(err)
	}
	if node.Alpha != 0 {
		t.Errorf("enter start alpha = %v", node.Alpha)
	}
	a.Update(1)
	if node.Alpha != 1 {
		t.Errorf("enter end alpha = %v", node.Alpha)
	}

	if _, err := a.Exit(node, hidden, opts); err != nil {
		t.Fatal(err)
	}
	a.Update(1)
	if node.Alpha != 0 || math.Abs(node.ScaleX-0.9) > 1e-6 {
		t.Errorf("exit end alpha=%v scale=%v", node.Alpha, node.ScaleX)
	}
}

func TestAnimatorRejectsUnsupportedHandles(t *testing.T) {
	a := NewAnimator()
	opts := AnimateOptions{Timing: linearSecond}

	if _, err := a.Enter("label", DefaultHiddenStyle(), opts); err == nil {
		t.Error("string handle should be rejected")
	}
	disposed := NewContainer("gone")
	disposed.Dispose()
	if _, err := a.Exit(disposed, DefaultHiddenStyle(), opts); err == nil {
		t.Error("disposed node should be rejected")
	}
	if a.Len() != 0 {
		t.Errorf("Len = %d, want 0", a.Len())
	}
}
