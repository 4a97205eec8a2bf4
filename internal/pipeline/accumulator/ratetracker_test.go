package accumulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestRateTracker_ExceedsAfterLimit(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tracker := NewRateTracker(3, time.Hour, clock.now)

	for i := 0; i < 3; i++ {
		assert.False(t, tracker.Observe("submitter-1"))
		clock.advance(time.Minute)
	}
	assert.True(t, tracker.Observe("submitter-1"))
	assert.Equal(t, 4, tracker.CountInWindow("submitter-1"))
}

func TestRateTracker_WindowExpiryResets(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tracker := NewRateTracker(2, 10*time.Minute, clock.now)

	assert.False(t, tracker.Observe("submitter-1"))
	assert.False(t, tracker.Observe("submitter-1"))
	assert.True(t, tracker.Observe("submitter-1"))

	clock.advance(11 * time.Minute)
	assert.False(t, tracker.Observe("submitter-1"))
	assert.Equal(t, 1, tracker.CountInWindow("submitter-1"))
}

func TestRateTracker_SubmittersAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tracker := NewRateTracker(1, time.Hour, clock.now)

	assert.False(t, tracker.Observe("submitter-1"))
	assert.True(t, tracker.Observe("submitter-1"))
	assert.False(t, tracker.Observe("submitter-2"))
}
