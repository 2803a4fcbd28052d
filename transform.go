package flip

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the local affine matrix from the node's
// layout box and visual transform. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-W/2, -H/2) -> Scale -> Translate(W/2 + X + TranslateX, H/2 + Y + TranslateY)
//
// so scaling is centered on the layout box, matching the midpoint-based
// deltas produced by Delta.
func computeLocalTransform(n *Node) [6]float64 {
	sx := n.ScaleX
	sy := n.ScaleY
	hw := n.Width / 2
	hh := n.Height / 2
	return [6]float64{
		sx, 0, 0, sy,
		-hw*sx + hw + n.X + n.TranslateX,
		-hh*sy + hh + n.Y + n.TranslateY,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// updateWorldTransform recomputes a node's worldTransform and worldAlpha.
// parentRecomputed indicates whether the parent was recomputed this frame,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine(parentTransform, local)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, n.worldAlpha, recompute)
	}
}

// --- Property setters ---

// SetPosition sets the node's layout position and marks it dirty.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.transformDirty = true
}

// SetSize sets the node's layout size and marks it dirty.
func (n *Node) SetSize(w, h float64) {
	n.Width = w
	n.Height = h
	n.transformDirty = true
}

// SetTranslate sets the node's visual translation and marks it dirty.
func (n *Node) SetTranslate(tx, ty float64) {
	n.TranslateX = tx
	n.TranslateY = ty
	n.transformDirty = true
}

// SetScale sets the node's ScaleX and ScaleY and marks it dirty.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
	n.transformDirty = true
}

// SetAlpha sets the node's alpha and marks it dirty.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// ResetVisual clears the visual transform back to identity.
func (n *Node) ResetVisual() {
	n.TranslateX, n.TranslateY = 0, 0
	n.ScaleX, n.ScaleY = 1, 1
	n.Alpha = 1
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next frame. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// LocalToWorld converts a local-space point to world-space using the
// transform computed during the last frame.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(n.worldTransform, lx, ly)
}

// --- Measurement ---

// Measurable is implemented by handles that can report their own layout
// box relative to a stable ancestor.
type Measurable interface {
	OffsetRect() (Rect, bool)
}

// OffsetRect returns the node's layout box relative to the scene root,
// summing layout offsets up the parent chain. Visual transforms are ignored.
// ok is false for disposed nodes.
func (n *Node) OffsetRect() (Rect, bool) {
	return n.OffsetRectWithin(nil)
}

// OffsetRectWithin returns the node's layout box relative to ancestor. A nil
// ancestor (or one that is not on the parent chain) measures up to the root.
func (n *Node) OffsetRectWithin(ancestor *Node) (Rect, bool) {
	if n == nil || n.disposed {
		return Rect{}, false
	}
	r := Rect{Left: n.X, Top: n.Y, Width: n.Width, Height: n.Height}
	for p := n.Parent; p != nil && p != ancestor; p = p.Parent {
		r.Left += p.X
		r.Top += p.Y
	}
	return r, true
}

// MeasureOffset is the default MeasureFunc. It measures handles that
// implement Measurable and reports ok=false for anything else.
func MeasureOffset(handle any) (Rect, bool) {
	m, ok := handle.(Measurable)
	if !ok || m == nil {
		return Rect{}, false
	}
	return m.OffsetRect()
}

// MeasureWithin returns a MeasureFunc that measures *Node handles relative
// to ancestor, giving the caller control over the coordinate frame.
func MeasureWithin(ancestor *Node) MeasureFunc {
	return func(handle any) (Rect, bool) {
		n, ok := handle.(*Node)
		if !ok {
			return MeasureOffset(handle)
		}
		return n.OffsetRectWithin(ancestor)
	}
}
