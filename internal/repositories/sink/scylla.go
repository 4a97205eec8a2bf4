package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/pkg/metric"
)

// Scylla writes one row per entry keyed by (batch_id, entry_id). The primary
// key makes redelivered batches overwrite their own rows, so no separate
// ledger is needed.
type Scylla struct {
	session  *gocql.Session
	keyspace string
	table    string
}

func newScylla(session *gocql.Session, keyspace, table string) *Scylla {
	return &Scylla{session: session, keyspace: keyspace, table: table}
}

func (s *Scylla) Append(ctx context.Context, batch *Batch) error {
	stmt := fmt.Sprintf(
		`INSERT INTO %s.%s (batch_id, entry_id, submitter_id, topic, relevance, novelty, detail_richness, composite, flushed_at, payload) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.keyspace, s.table)
	for _, entry := range batch.Entries {
		payload, err := json.Marshal(entry.Entry)
		if err != nil {
			return err
		}
		err = s.session.Query(stmt,
			batch.BatchID,
			entry.Entry.EntryID(),
			entry.SubmitterID,
			entry.Topic,
			entry.Relevance,
			entry.Novelty,
			entry.DetailRichness,
			entry.Composite,
			batch.FlushedAt,
			payload,
		).WithContext(ctx).Exec()
		if err != nil {
			metric.Incr("sink_write_error", []string{"sink_type:scylla"})
			log.Error().Err(err).Str("batchId", batch.BatchID).Msg("sink scylla insert failed")
			return err
		}
	}
	metric.Count("sink_entries_written", int64(len(batch.Entries)), []string{"sink_type:scylla"})
	return nil
}
