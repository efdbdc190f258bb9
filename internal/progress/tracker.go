// Package progress computes elapsed/ETA figures for a running
// operation. It has no console output of its own: callers (the
// pipeline's hashing phase, the event bus) read its numbers and decide
// how to surface them. Adapted from the teacher's
// internal/utils/progress.go ProgressTracker, which mixed this
// computation with a direct fmt.Printf loop; the CLI demo now owns
// terminal rendering via schollz/progressbar/v3, so this package keeps
// only the math.
package progress

import "time"

// Tracker measures progress toward a known total and estimates time
// remaining from the average rate observed so far.
type Tracker struct {
	total     int
	current   int
	startTime time.Time
}

// NewTracker starts a tracker for an operation expected to process
// total items.
func NewTracker(total int) *Tracker {
	return &Tracker{total: total, startTime: time.Now()}
}

// Update sets the current completed-item count.
func (t *Tracker) Update(current int) {
	t.current = current
}

// Percentage returns 0-100 completion, or 0 if total is 0.
func (t *Tracker) Percentage() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.current) / float64(t.total) * 100
}

// Elapsed is the wall-clock time since the tracker started.
func (t *Tracker) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// ETA estimates remaining time from the average per-item rate observed
// so far. Returns 0 before any progress has been recorded.
func (t *Tracker) ETA() time.Duration {
	if t.current <= 0 || t.current >= t.total {
		return 0
	}
	elapsed := t.Elapsed()
	totalEstimate := time.Duration(float64(elapsed) * float64(t.total) / float64(t.current))
	return totalEstimate - elapsed
}
