package flip

import "time"

const (
	// DefaultStaggerDelay is the per-item stagger step (one frame at 60Hz).
	DefaultStaggerDelay = 16600 * time.Microsecond
	// DefaultStaggerCap bounds the delay of any item in a batch.
	DefaultStaggerCap = 333 * time.Millisecond
)

// StaggerDelay returns the start delay of the i-th animation in a batch:
//
//	delay(i) = D·(1 − D/(i·step + D))
//
// The delay is zero for the first item, grows sub-linearly with i, and
// approaches but never reaches limit, so long lists do not produce a long
// staggered tail.
func StaggerDelay(i int, step, limit time.Duration) time.Duration {
	if i <= 0 || step <= 0 || limit <= 0 {
		return 0
	}
	d := float64(limit)
	x := float64(i) * float64(step)
	return time.Duration(d * (1 - d/(x+d)))
}
