package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/pkg/kafka"
	"github.com/omega-datasets/curator/pkg/metric"
)

const ledgerKeyPrefix = "sink:batch:"

// ledgerTTL bounds how long delivered batch ids are remembered. Retries of a
// batch happen within seconds, not days.
const ledgerTTL = 7 * 24 * time.Hour

// Kafka produces one message per batch, keyed by BatchID, and records
// delivered ids in a redis ledger so a retried batch is not produced twice.
type Kafka struct {
	kafkaId int
	redis   *redis.Client
}

func newKafka(kafkaId int, redisClient *redis.Client) *Kafka {
	kafka.InitProducer(kafkaId)
	return &Kafka{kafkaId: kafkaId, redis: redisClient}
}

func (k *Kafka) Append(ctx context.Context, batch *Batch) error {
	ledgerKey := ledgerKeyPrefix + batch.BatchID
	delivered, err := k.redis.Exists(ctx, ledgerKey).Result()
	if err != nil {
		log.Error().Err(err).Str("batchId", batch.BatchID).Msg("sink ledger lookup failed")
		return err
	}
	if delivered > 0 {
		metric.Incr("sink_batch_duplicate", []string{"sink_type:kafka"})
		log.Info().Str("batchId", batch.BatchID).Msg("batch already delivered, skipping produce")
		return nil
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	key := batch.BatchID
	if err := kafka.SendAndConfirm(k.kafkaId, []kafka.ProducerMessage{{Key: &key, Value: payload}}); err != nil {
		metric.Incr("sink_write_error", []string{"sink_type:kafka"})
		log.Error().Err(err).Str("batchId", batch.BatchID).Msg("sink produce failed")
		return err
	}

	// Ledger write after confirmed delivery. A crash in between redelivers
	// the batch; consumers deduplicate on BatchID.
	if _, err := k.redis.SetNX(ctx, ledgerKey, time.Now().Unix(), ledgerTTL).Result(); err != nil {
		log.Error().Err(err).Str("batchId", batch.BatchID).Msg("sink ledger write failed")
	}
	metric.Count("sink_entries_written", int64(len(batch.Entries)), []string{"sink_type:kafka"})
	return nil
}
