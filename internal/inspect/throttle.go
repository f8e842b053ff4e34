package inspect

import "time"

// Throttle limits how often classification runs. The interval is measured
// between two runs, not between frames.
type Throttle struct {
	Interval time.Duration

	last time.Time
	ran  bool
}

// Ready reports whether a run may start at now. The first call is always ready.
func (t *Throttle) Ready(now time.Time) bool {
	return !t.ran || now.Sub(t.last) >= t.Interval
}

// Mark records a run at now.
func (t *Throttle) Mark(now time.Time) {
	t.last = now
	t.ran = true
}
