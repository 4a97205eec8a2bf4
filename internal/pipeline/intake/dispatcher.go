package intake

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/pipeline"
	"github.com/omega-datasets/curator/internal/repositories/sink"
	"github.com/omega-datasets/curator/pkg/metric"
)

const dispatchQueueSize = 16

// Dispatcher hands flushed batches to the sink on a background goroutine.
// Delivery is at-least-once: a batch is retried with backoff until the sink
// accepts it, and is never re-admitted to the accumulation buffer.
type Dispatcher struct {
	store         sink.Store
	writeTimeout  time.Duration
	escalateAfter int

	ch      chan *sink.Batch
	quit    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	pending map[string]*sink.Batch
}

func NewDispatcher(store sink.Store, writeTimeout time.Duration, escalateAfter int) *Dispatcher {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	if escalateAfter <= 0 {
		escalateAfter = 5
	}
	return &Dispatcher{
		store:         store,
		writeTimeout:  writeTimeout,
		escalateAfter: escalateAfter,
		ch:            make(chan *sink.Batch, dispatchQueueSize),
		quit:          make(chan struct{}),
		pending:       make(map[string]*sink.Batch),
	}
}

// Start launches the delivery goroutine.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for batch := range d.ch {
			d.deliver(batch)
		}
	}()
}

// Enqueue wraps flushed entries into a batch with a fresh id and queues it
// for delivery. Blocks when the queue is full rather than dropping entries.
func (d *Dispatcher) Enqueue(entries []pipeline.ScoredEntry) {
	if len(entries) == 0 {
		return
	}
	batch := &sink.Batch{
		BatchID:   uuid.NewString(),
		FlushedAt: time.Now().UTC(),
		Entries:   entries,
	}
	d.mu.Lock()
	d.pending[batch.BatchID] = batch
	d.mu.Unlock()
	d.ch <- batch
}

// deliver retries until the sink accepts the batch or shutdown gives up.
// Batches survive sink outages in memory; they are only dropped at process
// exit after being serialized to the log.
func (d *Dispatcher) deliver(batch *sink.Batch) {
	attempt := 0
	for {
		attempt++
		ctx, cancel := context.WithTimeout(context.Background(), d.writeTimeout)
		err := d.store.Append(ctx, batch)
		cancel()
		if err == nil {
			d.mu.Lock()
			delete(d.pending, batch.BatchID)
			d.mu.Unlock()
			metric.Incr("sink_batch_delivered", nil)
			log.Info().Str("batchId", batch.BatchID).Int("entries", len(batch.Entries)).Msg("batch delivered to sink")
			return
		}
		metric.Incr("sink_batch_retry", nil)
		log.Error().Err(err).Str("batchId", batch.BatchID).Int("attempt", attempt).Msg("sink write failed, will retry")
		if attempt == d.escalateAfter {
			metric.Incr("sink_batch_escalated", nil)
			log.Error().Str("batchId", batch.BatchID).Msgf("sink write still failing after %d attempts", attempt)
		}
		backoff := time.Duration(attempt) * 500 * time.Millisecond
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
		select {
		case <-d.quit:
			return
		case <-time.After(backoff):
		}
	}
}

// Shutdown closes the queue, waits up to deadline for in-flight deliveries,
// then serializes any undelivered batches to the log for manual recovery.
func (d *Dispatcher) Shutdown(deadline time.Duration) {
	close(d.ch)
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(deadline):
		close(d.quit)
		<-done
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, batch := range d.pending {
		payload, err := json.Marshal(batch)
		if err != nil {
			log.Error().Err(err).Str("batchId", id).Msg("failed to serialize undelivered batch")
			continue
		}
		metric.Count("sink_entries_unrecovered", int64(len(batch.Entries)), nil)
		log.Error().Str("batchId", id).RawJSON("batch", payload).Msg("undelivered batch at shutdown, manual recovery required")
	}
}
