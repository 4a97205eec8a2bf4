package listener

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/pipeline"
	"github.com/omega-datasets/curator/internal/pipeline/intake"
	"github.com/omega-datasets/curator/pkg/metric"
)

// ProcessSubmissionEvents runs each submission in the batch through the
// intake pipeline. A processing error fails the whole batch so the
// listener seeks back and redelivers; malformed payloads are skipped.
func ProcessSubmissionEvents(msgs []*kafka.Message, c *kafka.Consumer) error {
	handler := intake.Instance()
	for _, m := range msgs {
		var sub pipeline.Submission
		if err := json.Unmarshal(m.Value, &sub); err != nil {
			log.Error().Msgf("Error in JSON deserialization: %s", err)
			metric.Incr("submission_consumer_decode_error", nil)
			continue
		}

		metric.Incr("submission_consumer_event", metric.BuildTag(metric.NewTag("topic", sub.Topic)))
		verdict, err := handler.Process(context.Background(), &sub)
		if err != nil {
			log.Error().Msgf("Error in processing submission %s: %v", sub.SubmissionID, err)
			return err
		}
		if !verdict.Accepted {
			log.Info().Str("submissionId", sub.SubmissionID).Str("reason", verdict.Reason).
				Msg("submission rejected")
		}
	}
	return nil
}
