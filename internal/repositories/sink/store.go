package sink

import (
	"context"
	"time"

	"github.com/omega-datasets/curator/internal/pipeline"
)

// Batch is one flushed shard of accepted entries. BatchID is the idempotency
// key: a batch retried after a partial failure carries the same id and
// downstream consumers deduplicate on it.
type Batch struct {
	BatchID   string                 `json:"batch_id"`
	FlushedAt time.Time              `json:"flushed_at"`
	Entries   []pipeline.ScoredEntry `json:"entries"`
}

// Store persists flushed batches. Append is at-least-once: callers retry on
// error and implementations must tolerate redelivery of the same BatchID.
type Store interface {
	Append(ctx context.Context, batch *Batch) error
}
