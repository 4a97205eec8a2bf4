package accumulator

import (
	"sync"
	"time"
)

// RateTracker counts spot-check-accepted submissions per submitter inside a
// sliding window. It only observes; the buffer owns the threshold reaction.
type RateTracker struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	events map[string][]time.Time
	now    func() time.Time
}

// NewRateTracker builds a tracker allowing limit submissions per window
// before Observe reports an excess. now may be nil; tests inject a clock.
func NewRateTracker(limit int, window time.Duration, now func() time.Time) *RateTracker {
	if now == nil {
		now = time.Now
	}
	return &RateTracker{
		window: window,
		limit:  limit,
		events: make(map[string][]time.Time),
		now:    now,
	}
}

// Observe records one submission for the submitter and reports whether the
// submitter now exceeds the window limit. Expired events are pruned as a
// side effect.
func (t *RateTracker) Observe(submitterID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	cutoff := now.Add(-t.window)

	events := t.events[submitterID]
	kept := events[:0]
	for _, e := range events {
		if e.After(cutoff) {
			kept = append(kept, e)
		}
	}
	kept = append(kept, now)
	t.events[submitterID] = kept
	return len(kept) > t.limit
}

// CountInWindow returns the live event count for a submitter.
func (t *RateTracker) CountInWindow(submitterID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-t.window)
	count := 0
	for _, e := range t.events[submitterID] {
		if e.After(cutoff) {
			count++
		}
	}
	return count
}
