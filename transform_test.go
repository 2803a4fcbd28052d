package flip

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- computeLocalTransform ---

func TestLocalTransformIdentity(t *testing.T) {
	n := NewContainer("test")
	got := computeLocalTransform(n)
	assertMatrix(t, "identity", got, [6]float64{1, 0, 0, 1, 0, 0})
}

func TestLocalTransformLayoutPosition(t *testing.T) {
	n := NewContainer("test")
	n.X = 10
	n.Y = 20
	got := computeLocalTransform(n)
	assertMatrix(t, "position", got, [6]float64{1, 0, 0, 1, 10, 20})
}

func TestLocalTransformTranslateAddsToLayout(t *testing.T) {
	n := NewBox("test", 40, 20, ColorWhite)
	n.X, n.Y = 10, 20
	n.TranslateX, n.TranslateY = -5, 7
	got := computeLocalTransform(n)
	assertMatrix(t, "translate", got, [6]float64{1, 0, 0, 1, 5, 27})
}

func TestLocalTransformScaleCentered(t *testing.T) {
	n := NewBox("test", 100, 50, ColorWhite)
	n.ScaleX = 0.5
	n.ScaleY = 2
	got := computeLocalTransform(n)
	// Scaling around (50, 25): the center stays put.
	cx, cy := transformPoint(got, 50, 25)
	assertNear(t, "center.x", cx, 50)
	assertNear(t, "center.y", cy, 25)
	// The top-left corner moves toward / away from the center.
	x0, y0 := transformPoint(got, 0, 0)
	assertNear(t, "corner.x", x0, 25)
	assertNear(t, "corner.y", y0, -25)
}

// --- multiplyAffine ---

func TestMultiplyAffineIdentity(t *testing.T) {
	m := [6]float64{2, 0, 0, 3, 10, 20}
	assertMatrix(t, "I*m", multiplyAffine(identityTransform, m), m)
	assertMatrix(t, "m*I", multiplyAffine(m, identityTransform), m)
}

func TestMultiplyAffineTranslations(t *testing.T) {
	a := [6]float64{1, 0, 0, 1, 10, 20}
	b := [6]float64{1, 0, 0, 1, 5, 7}
	assertMatrix(t, "a*b", multiplyAffine(a, b), [6]float64{1, 0, 0, 1, 15, 27})
}

// --- updateWorldTransform ---

func TestWorldTransformParentChild(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	parent.X = 100
	child.X = 10

	updateWorldTransform(parent, identityTransform, 1.0, false)

	assertNear(t, "parent.tx", parent.worldTransform[4], 100)
	assertNear(t, "child.tx", child.worldTransform[4], 110)
}

func TestAlphaPropagation(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	parent.Alpha = 0.5
	child.Alpha = 0.5

	updateWorldTransform(parent, identityTransform, 1.0, false)

	assertNear(t, "parent.worldAlpha", parent.worldAlpha, 0.5)
	assertNear(t, "child.worldAlpha", child.worldAlpha, 0.25)
}

func TestDirtyFlagSkipsClean(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	parent.X = 100
	child.X = 10
	updateWorldTransform(parent, identityTransform, 1.0, false)

	// Clear dirty, change child X directly (without setter → stays clean)
	child.transformDirty = false
	parent.transformDirty = false
	child.X = 999

	updateWorldTransform(parent, identityTransform, 1.0, false)

	assertNear(t, "child.tx (stale)", child.worldTransform[4], 110)
}

func TestDirtyFlagRecomputes(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	parent.X = 100
	child.X = 10
	updateWorldTransform(parent, identityTransform, 1.0, false)

	child.SetPosition(20, 0)
	updateWorldTransform(parent, identityTransform, 1.0, false)

	assertNear(t, "child.tx (updated)", child.worldTransform[4], 120)
}

func TestParentRecomputedPropagates(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	parent.X = 100
	child.X = 10
	updateWorldTransform(parent, identityTransform, 1.0, false)

	parent.SetPosition(200, 0)
	updateWorldTransform(parent, identityTransform, 1.0, false)

	assertNear(t, "child.tx (from parent)", child.worldTransform[4], 210)
}

func TestLocalToWorld(t *testing.T) {
	n := NewContainer("test")
	n.X = 50
	n.Y = 100
	updateWorldTransform(n, identityTransform, 1.0, true)

	wx, wy := n.LocalToWorld(0, 0)
	assertNear(t, "origin.x", wx, 50)
	assertNear(t, "origin.y", wy, 100)
}

func TestDeepHierarchy(t *testing.T) {
	nodes := make([]*Node, 10)
	for i := range nodes {
		nodes[i] = NewContainer("")
		nodes[i].X = 10
		if i > 0 {
			nodes[i-1].AddChild(nodes[i])
		}
	}

	updateWorldTransform(nodes[0], identityTransform, 1.0, false)

	assertNear(t, "deep.tx", nodes[9].worldTransform[4], 100)
}

// --- Setters ---

func TestSettersDirty(t *testing.T) {
	n := NewContainer("test")
	setters := []struct {
		name string
		fn   func()
	}{
		{"SetPosition", func() { n.SetPosition(1, 2) }},
		{"SetSize", func() { n.SetSize(3, 4) }},
		{"SetTranslate", func() { n.SetTranslate(5, 6) }},
		{"SetScale", func() { n.SetScale(2, 2) }},
		{"SetAlpha", func() { n.SetAlpha(0.5) }},
		{"ResetVisual", func() { n.ResetVisual() }},
		{"MarkDirty", func() { n.MarkDirty() }},
	}
	for _, s := range setters {
		n.transformDirty = false
		s.fn()
		if !n.transformDirty {
			t.Errorf("%s should set dirty", s.name)
		}
	}
	if n.TranslateX != 0 || n.ScaleX != 1 || n.Alpha != 1 {
		t.Error("ResetVisual should restore identity")
	}
}

// --- Measurement ---

func TestOffsetRectIgnoresVisualTransform(t *testing.T) {
	n := NewBox("n", 100, 20, ColorWhite)
	n.SetPosition(10, 30)
	n.SetTranslate(50, 50)
	n.SetScale(2, 2)

	r, ok := n.OffsetRect()
	if !ok {
		t.Fatal("OffsetRect not ok")
	}
	if r != (Rect{Left: 10, Top: 30, Width: 100, Height: 20}) {
		t.Errorf("OffsetRect = %+v", r)
	}
}

func TestOffsetRectSumsParents(t *testing.T) {
	root := NewContainer("root")
	list := NewContainer("list")
	item := NewBox("item", 10, 10, ColorWhite)
	root.AddChild(list)
	list.AddChild(item)
	root.SetPosition(5, 5)
	list.SetPosition(100, 200)
	item.SetPosition(1, 2)

	r, _ := item.OffsetRect()
	if r.Left != 106 || r.Top != 207 {
		t.Errorf("OffsetRect = %+v, want left 106 top 207", r)
	}

	r, _ = item.OffsetRectWithin(list)
	if r.Left != 1 || r.Top != 2 {
		t.Errorf("OffsetRectWithin(list) = %+v, want left 1 top 2", r)
	}
}

func TestOffsetRectDisposed(t *testing.T) {
	n := NewBox("n", 1, 1, ColorWhite)
	n.Dispose()
	if _, ok := n.OffsetRect(); ok {
		t.Error("disposed node should not be measurable")
	}
}

func TestMeasureOffsetUnsupportedHandle(t *testing.T) {
	if _, ok := MeasureOffset("not a node"); ok {
		t.Error("string handle should not be measurable")
	}
	var n *Node
	if _, ok := MeasureOffset(n); ok {
		t.Error("nil *Node should not be measurable")
	}
}

func TestMeasureWithin(t *testing.T) {
	list := NewContainer("list")
	list.SetPosition(300, 300)
	item := NewBox("item", 10, 10, ColorWhite)
	list.AddChild(item)
	item.SetPosition(0, 40)

	r, ok := MeasureWithin(list)(item)
	if !ok || r.Top != 40 || r.Left != 0 {
		t.Errorf("MeasureWithin = %+v, %v", r, ok)
	}
}

func TestWorldTransformZeroAllocs(t *testing.T) {
	parent := NewContainer("parent")
	for i := 0; i < 10; i++ {
		parent.AddChild(NewBox("", 10, 10, ColorWhite))
	}
	updateWorldTransform(parent, identityTransform, 1.0, false)

	allocs := testing.AllocsPerRun(100, func() {
		parent.SetPosition(parent.X+1, 0)
		updateWorldTransform(parent, identityTransform, 1.0, false)
	})
	if allocs != 0 {
		t.Errorf("allocs = %v, want 0", allocs)
	}
}
