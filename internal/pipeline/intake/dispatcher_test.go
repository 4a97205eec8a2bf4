package intake

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/omega-datasets/curator/internal/pipeline"
	"github.com/omega-datasets/curator/internal/repositories/sink"
)

func makeScoredEntries(n int) []pipeline.ScoredEntry {
	entries := make([]pipeline.ScoredEntry, n)
	for i := range entries {
		entries[i] = pipeline.ScoredEntry{Composite: 0.5}
	}
	return entries
}

func TestDispatcher_DeliversBatch(t *testing.T) {
	store := new(sink.MockStore)
	delivered := make(chan *sink.Batch, 1)
	store.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		delivered <- args.Get(1).(*sink.Batch)
	}).Return(nil)

	d := NewDispatcher(store, time.Second, 2)
	d.Start()
	d.Enqueue(makeScoredEntries(16))

	select {
	case batch := <-delivered:
		assert.NotEmpty(t, batch.BatchID)
		assert.False(t, batch.FlushedAt.IsZero())
		assert.Len(t, batch.Entries, 16)
	case <-time.After(2 * time.Second):
		t.Fatal("batch never delivered")
	}
	d.Shutdown(time.Second)
	store.AssertNumberOfCalls(t, "Append", 1)
}

func TestDispatcher_EmptyEnqueueIsNoop(t *testing.T) {
	store := new(sink.MockStore)
	d := NewDispatcher(store, time.Second, 2)
	d.Start()
	d.Enqueue(nil)
	d.Shutdown(time.Second)
	store.AssertNotCalled(t, "Append")
}

// A transient sink failure must not lose the batch; delivery retries with
// the same batch id.
func TestDispatcher_RetriesUntilAccepted(t *testing.T) {
	store := new(sink.MockStore)
	delivered := make(chan *sink.Batch, 1)
	store.On("Append", mock.Anything, mock.Anything).Return(errors.New("sink down")).Once()
	store.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		delivered <- args.Get(1).(*sink.Batch)
	}).Return(nil).Once()

	d := NewDispatcher(store, time.Second, 2)
	d.Start()
	d.Enqueue(makeScoredEntries(8))

	select {
	case batch := <-delivered:
		assert.Len(t, batch.Entries, 8)
	case <-time.After(5 * time.Second):
		t.Fatal("batch never delivered after retry")
	}
	d.Shutdown(time.Second)
	store.AssertNumberOfCalls(t, "Append", 2)
}

// When the sink never recovers, shutdown must still return within the
// deadline instead of hanging on the retry loop.
func TestDispatcher_ShutdownAbandonsDeadSink(t *testing.T) {
	store := new(sink.MockStore)
	store.On("Append", mock.Anything, mock.Anything).Return(errors.New("sink down"))

	d := NewDispatcher(store, 50*time.Millisecond, 2)
	d.Start()
	d.Enqueue(makeScoredEntries(8))

	start := time.Now()
	d.Shutdown(200 * time.Millisecond)
	assert.Less(t, time.Since(start), 3*time.Second)
	store.AssertCalled(t, "Append", mock.Anything, mock.Anything)
}
