package accumulator

import (
	"fmt"
	"sync"

	"github.com/omega-datasets/curator/internal/pipeline"
	"github.com/omega-datasets/curator/pkg/metric"
)

// Buffer accumulates scored entries in acceptance order until the adaptive
// threshold is reached. The threshold starts at the base, rises by step when
// a submitter floods the window, never exceeds the ceiling and never drops
// below the base.
type Buffer struct {
	mu        sync.Mutex
	entries   []pipeline.ScoredEntry
	threshold int
	base      int
	ceiling   int
	step      int
}

func NewBuffer(base, ceiling, step int) *Buffer {
	if base < 1 {
		base = 1
	}
	if ceiling < base {
		ceiling = base
	}
	if step < 1 {
		step = 1
	}
	return &Buffer{
		threshold: base,
		base:      base,
		ceiling:   ceiling,
		step:      step,
	}
}

// Append adds one accepted submission's entries. Anything other than a full
// submission group is refused, preserving submission atomicity.
func (b *Buffer) Append(entries []pipeline.ScoredEntry) error {
	if len(entries) != pipeline.SubmissionSize {
		return fmt.Errorf("append must carry exactly %d entries, got %d", pipeline.SubmissionSize, len(entries))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, entries...)
	metric.Gauge("accumulation_buffer_size", float64(len(b.entries)), nil)
	return nil
}

// MaybeFlush returns the whole buffer contents and resets it iff the current
// size has reached the threshold; otherwise it returns nil.
func (b *Buffer) MaybeFlush() []pipeline.ScoredEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) < b.threshold {
		return nil
	}
	return b.drain()
}

// ForceFlush returns the whole buffer contents regardless of threshold and
// resets the buffer. An empty buffer yields nil.
func (b *Buffer) ForceFlush() []pipeline.ScoredEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == 0 {
		return nil
	}
	return b.drain()
}

func (b *Buffer) drain() []pipeline.ScoredEntry {
	out := b.entries
	b.entries = nil
	metric.Gauge("accumulation_buffer_size", 0, nil)
	return out
}

// RaiseThreshold bumps the threshold by one step, capped at the ceiling.
// The threshold never decreases.
func (b *Buffer) RaiseThreshold() {
	b.mu.Lock()
	defer b.mu.Unlock()
	raised := b.threshold + b.step
	if raised > b.ceiling {
		raised = b.ceiling
	}
	if raised > b.threshold {
		b.threshold = raised
		metric.Gauge("accumulation_threshold", float64(b.threshold), nil)
	}
}

// Threshold returns the current flush threshold.
func (b *Buffer) Threshold() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.threshold
}

// Size returns the current number of buffered entries.
func (b *Buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
