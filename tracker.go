package flip

import "time"

// MoveTracker remembers the last observed geometry of one visual node and
// reports a move whenever that geometry drifts between passes.
//
// The zero value measures with MeasureOffset and reports nothing; set Move
// to receive the inverse delta of each detected move.
type MoveTracker struct {
	// Measure overrides geometry measurement. Default: MeasureOffset.
	Measure MeasureFunc
	// Move is called with the inverse delta (current position back to the
	// previous one) whenever the node moved or resized noticeably.
	Move func(handle any, delta *StyleDelta)

	rect    Rect
	hasRect bool
}

// Update measures the node behind handle and compares the result with the
// previous observation. It returns whether Move was invoked. The stored rect
// is always replaced, so each comparison is against the immediately
// preceding pass. A handle that cannot be measured is skipped and leaves the
// stored rect untouched.
func (t *MoveTracker) Update(handle any) bool {
	current, ok := t.measure(handle)
	if !ok {
		return false
	}
	prior, had := t.rect, t.hasRect
	t.rect, t.hasRect = current, true
	if !had {
		return false
	}

	delta := Delta(current, prior)
	if delta == nil {
		return false
	}
	if t.Move != nil {
		t.Move(handle, delta)
	}
	return true
}

// Remeasure replaces the stored rect with a fresh measurement without
// reporting a move. Used after ambient resizes so the next layout change is
// compared against a current baseline.
func (t *MoveTracker) Remeasure(handle any) {
	if r, ok := t.measure(handle); ok {
		t.rect, t.hasRect = r, true
	}
}

// Forget drops the stored rect. The next Update establishes a new baseline.
func (t *MoveTracker) Forget() {
	t.rect, t.hasRect = Rect{}, false
}

// Rect returns the stored rect, if any.
func (t *MoveTracker) Rect() (Rect, bool) {
	return t.rect, t.hasRect
}

func (t *MoveTracker) measure(handle any) (Rect, bool) {
	if handle == nil {
		return Rect{}, false
	}
	if t.Measure != nil {
		return t.Measure(handle)
	}
	return MeasureOffset(handle)
}

// ResizeDebouncer coalesces bursts of resize notifications into a single
// re-measure once Delay of quiet time has passed. It is advanced by frame
// deltas rather than wall-clock timers.
type ResizeDebouncer struct {
	// Delay is the quiet period. Default: DefaultResizeDebounce.
	Delay time.Duration

	pending bool
	quiet   time.Duration
}

// Notify records a resize and restarts the quiet period.
func (d *ResizeDebouncer) Notify() {
	d.pending = true
	d.quiet = 0
}

// Advance moves time forward by dt and reports whether the debounced resize
// fires now. It fires at most once per burst.
func (d *ResizeDebouncer) Advance(dt time.Duration) bool {
	if !d.pending {
		return false
	}
	d.quiet += dt
	delay := d.Delay
	if delay <= 0 {
		delay = DefaultResizeDebounce
	}
	if d.quiet < delay {
		return false
	}
	d.pending = false
	d.quiet = 0
	return true
}

// Pending reports whether a resize is waiting for its quiet period.
func (d *ResizeDebouncer) Pending() bool {
	return d.pending
}
