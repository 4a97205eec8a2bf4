package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/config"
	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/internal/pipeline"
	"github.com/omega-datasets/curator/internal/repositories/embedding"
	"github.com/omega-datasets/curator/internal/repositories/novelty"
	"github.com/omega-datasets/curator/pkg/metric"
)

const (
	insertAttempts = 3
	insertBackoff  = 100 * time.Millisecond
)

// CombineWeights are the static modality weights for the combined embedding.
type CombineWeights struct {
	Video   float64
	Audio   float64
	Caption float64
}

func CombineWeightsFromConfig(cfg structs.Configs) CombineWeights {
	w := CombineWeights{Video: cfg.CombineWeightVideo, Audio: cfg.CombineWeightAudio, Caption: cfg.CombineWeightCaption}
	if w.Video+w.Audio+w.Caption == 0 {
		w = CombineWeights{Video: 1, Audio: 1, Caption: 1}
	}
	return w
}

// Engine scores validated submissions. Entries are scored in order and each
// entry competes with its predecessors through a pending overlay; combined
// embeddings are committed to the novelty index only after the whole
// submission scores cleanly, so a failed submission leaves no vectors behind.
type Engine struct {
	manager  config.Manager
	index    novelty.Database
	embedder embedding.Client
	combine  CombineWeights
}

func New(manager config.Manager, index novelty.Database, embedder embedding.Client, combine CombineWeights) *Engine {
	return &Engine{
		manager:  manager,
		index:    index,
		embedder: embedder,
		combine:  combine,
	}
}

// Index exposes the novelty index for read-only callers.
func (e *Engine) Index() novelty.Database {
	return e.index
}

// ScoreSubmission scores all entries of a validated submission. Any error
// leaves the submission unscored and the novelty index untouched; no partial
// result is returned.
func (e *Engine) ScoreSubmission(ctx context.Context, sub *pipeline.Submission) ([]pipeline.ScoredEntry, error) {
	startTime := time.Now()
	scored, err := e.score(ctx, sub, true)
	if err != nil {
		return nil, err
	}
	metric.Timing("scoring_submission_latency", time.Since(startTime), nil)
	return scored, nil
}

// Preview scores entries without inserting anything into the novelty index.
// Entries of the same submission therefore do not compete with each other.
func (e *Engine) Preview(ctx context.Context, sub *pipeline.Submission) ([]pipeline.ScoredEntry, error) {
	return e.score(ctx, sub, false)
}

func (e *Engine) score(ctx context.Context, sub *pipeline.Submission, insert bool) ([]pipeline.ScoredEntry, error) {
	scoring, err := e.manager.GetScoringConfig()
	if err != nil {
		return nil, err
	}
	if sum := scoring.WeightRelevance + scoring.WeightNovelty + scoring.WeightDetail; math.Abs(sum-1) > 1e-6 {
		return nil, fmt.Errorf("score weights must sum to 1, got %.4f", sum)
	}
	rank := scoring.NeighborRank
	if rank < 1 {
		rank = 1
	}

	topicVec, err := e.embedder.EmbedText(ctx, sub.Topic)
	if err != nil {
		log.Error().Err(err).Str("topic", sub.Topic).Msg("failed to embed topic reference")
		return nil, err
	}

	scored := make([]pipeline.ScoredEntry, 0, len(sub.Entries))
	pending := make([]pendingInsert, 0, len(sub.Entries))
	for i := range sub.Entries {
		entry := &sub.Entries[i]
		combined, err := pipeline.CombineEmbeddings(
			entry.EmbeddingVideo, entry.EmbeddingAudio, entry.EmbeddingCaption,
			e.combine.Video, e.combine.Audio, e.combine.Caption)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		relevanceSim, err := pipeline.CosineSimilarity(topicVec, combined)
		if err != nil {
			return nil, fmt.Errorf("entry %d relevance: %w", i, err)
		}
		relevance := pipeline.Clamp01(relevanceSim)

		noveltyScore, err := e.noveltyScore(ctx, entry.EntryID(), combined, rank, pending)
		if err != nil {
			return nil, fmt.Errorf("entry %d novelty: %w", i, err)
		}

		detailSim, err := pipeline.CosineSimilarity(entry.EmbeddingCaption, entry.EmbeddingVideo)
		if err != nil {
			return nil, fmt.Errorf("entry %d detail: %w", i, err)
		}
		detail := pipeline.Clamp01(detailSim)

		composite := pipeline.Clamp01(
			scoring.WeightRelevance*relevance +
				scoring.WeightNovelty*noveltyScore +
				scoring.WeightDetail*detail)

		scored = append(scored, pipeline.ScoredEntry{
			Entry:          *entry,
			SubmitterID:    sub.SubmitterID,
			Topic:          sub.Topic,
			Relevance:      relevance,
			Novelty:        noveltyScore,
			DetailRichness: detail,
			Composite:      composite,
		})

		if insert {
			pending = append(pending, pendingInsert{id: entry.EntryID(), vector: combined})
		}
	}

	// Commit only after every entry scored; a scoring failure above leaves
	// the index exactly as it was, so a redelivered submission never scores
	// against its own leftover vectors.
	for i := range pending {
		if err := e.insertWithRetry(ctx, pending[i].id, pending[i].vector); err != nil {
			return nil, fmt.Errorf("entry %d index insert: %w", i, err)
		}
	}
	return scored, nil
}

type pendingInsert struct {
	id     string
	vector []float32
}

// noveltyScore is 1 minus the similarity to the rank-th nearest vector among
// the committed index and the submission's pending overlay. Fewer than rank
// candidates yield maximum novelty. The entry's own id is excluded on both
// sides.
func (e *Engine) noveltyScore(ctx context.Context, entryID string, combined []float32, rank int, pending []pendingInsert) (float64, error) {
	sims, err := e.index.NearestSimilarities(ctx, combined, rank, entryID)
	if err != nil {
		return 0, err
	}
	for _, p := range pending {
		if p.id == entryID {
			continue
		}
		sim, err := pipeline.CosineSimilarity(combined, p.vector)
		if err != nil {
			return 0, err
		}
		sims = append(sims, sim)
	}
	if len(sims) < rank {
		return 1, nil
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sims)))
	return pipeline.Clamp01(1 - sims[rank-1]), nil
}

func (e *Engine) insertWithRetry(ctx context.Context, id string, vector []float32) error {
	var lastErr error
	for attempt := 1; attempt <= insertAttempts; attempt++ {
		if lastErr = e.index.Insert(ctx, id, vector); lastErr == nil {
			return nil
		}
		log.Warn().Err(lastErr).Int("attempt", attempt).Str("entryId", id).Msg("novelty index insert failed")
		if attempt < insertAttempts {
			time.Sleep(time.Duration(attempt) * insertBackoff)
		}
	}
	return lastErr
}
