package events

import (
	"time"

	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// Throttle decides when a hot loop should emit its next progress event:
// as soon as either the item-count interval or the wall-clock interval
// has elapsed since the last emission, whichever comes first. Grounded on the original
// implementation's `find_duplicate_pairs_with_events` interval formula
// (src/core/comparator/mod.rs): update_interval = min(1000, max(1, total/50)).
type Throttle struct {
	itemInterval int
	timeInterval time.Duration
	lastItem     int
	lastTime     time.Time
}

// NewThrottle builds a throttle for a loop expected to run `total`
// iterations.
func NewThrottle(total int) *Throttle {
	interval := total / 50
	if interval < 1 {
		interval = 1
	}
	if interval > 1000 {
		interval = 1000
	}
	return &Throttle{itemInterval: interval, timeInterval: api.EventProgressInterval}
}

// ShouldEmit reports whether a progress event should fire now for the
// given completed-item count, and records that decision.
func (t *Throttle) ShouldEmit(completed int) bool {
	if completed-t.lastItem < t.itemInterval && time.Since(t.lastTime) < t.timeInterval {
		return false
	}
	t.lastItem = completed
	t.lastTime = time.Now()
	return true
}
