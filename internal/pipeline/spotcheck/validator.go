package spotcheck

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/config"
	"github.com/omega-datasets/curator/internal/pipeline"
	"github.com/omega-datasets/curator/internal/repositories/embedding"
	"github.com/omega-datasets/curator/pkg/metric"
)

const (
	retryBackoff   = 200 * time.Millisecond
	maxClipSeconds = 120
)

// Result is the outcome of one spot check. A failed check rejects the whole
// submission.
type Result struct {
	Passed       bool
	CheckedIndex int
	Reason       string
	// Similarities per modality for the checked entry, in video, audio,
	// caption order. Zero-valued when the check never reached comparison.
	Similarities [3]float64
}

// Validator re-embeds one randomly sampled entry per submission and compares
// the submitter's embeddings against the trusted ones.
type Validator struct {
	embedder  embedding.Client
	manager   config.Manager
	attempts  int
	randIndex func(n int) int
}

// New builds a Validator. randIndex may be nil, in which case a seeded
// math/rand source is used; tests inject a deterministic one.
func New(embedder embedding.Client, manager config.Manager, attempts int, randIndex func(n int) int) *Validator {
	if attempts <= 0 {
		attempts = 3
	}
	if randIndex == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		randIndex = rng.Intn
	}
	return &Validator{
		embedder:  embedder,
		manager:   manager,
		attempts:  attempts,
		randIndex: randIndex,
	}
}

// Validate runs the spot check. A non-nil error means the submission could
// not be judged; a Result with Passed=false means it was judged and rejected.
func (v *Validator) Validate(ctx context.Context, sub *pipeline.Submission) (*Result, error) {
	if len(sub.Entries) != pipeline.SubmissionSize {
		metric.Incr("spot_check_rejected", []string{"reason:entry_count"})
		return &Result{
			Passed: false,
			Reason: fmt.Sprintf("submission must contain exactly %d entries, got %d", pipeline.SubmissionSize, len(sub.Entries)),
		}, nil
	}

	for i := range sub.Entries {
		e := &sub.Entries[i]
		if e.ClipEnd <= e.ClipStart || e.ClipEnd-e.ClipStart > maxClipSeconds {
			metric.Incr("spot_check_rejected", []string{"reason:clip_bounds"})
			return &Result{
				Passed: false,
				Reason: fmt.Sprintf("entry %d has invalid clip bounds [%.2f, %.2f]", i, e.ClipStart, e.ClipEnd),
			}, nil
		}
	}

	idx := v.randIndex(pipeline.SubmissionSize)
	entry := sub.Entries[idx]

	trusted, err := v.embedClipWithRetry(ctx, embedding.ClipRequest{
		VideoID:   entry.VideoID,
		ClipStart: entry.ClipStart,
		ClipEnd:   entry.ClipEnd,
		Caption:   entry.Caption,
	})
	if err != nil {
		metric.Incr("spot_check_rejected", []string{"reason:embed_unavailable"})
		log.Error().Err(err).Str("submissionId", sub.SubmissionID).Str("videoId", entry.VideoID).
			Msg("spot check could not re-embed entry, rejecting submission")
		return &Result{
			Passed:       false,
			CheckedIndex: idx,
			Reason:       "clip could not be re-embedded: " + err.Error(),
		}, nil
	}

	scoring, err := v.manager.GetScoringConfig()
	if err != nil {
		return nil, err
	}
	tolerance := scoring.SimilarityTolerance

	result := &Result{CheckedIndex: idx}
	modalities := []struct {
		name      string
		submitted []float32
		trusted   []float32
	}{
		{"video", entry.EmbeddingVideo, trusted.Video},
		{"audio", entry.EmbeddingAudio, trusted.Audio},
		{"caption", entry.EmbeddingCaption, trusted.Caption},
	}
	for i, m := range modalities {
		sim, err := pipeline.CosineSimilarity(m.submitted, m.trusted)
		if err != nil {
			metric.Incr("spot_check_rejected", []string{"reason:dimension_mismatch"})
			result.Reason = fmt.Sprintf("%s embedding dimension mismatch at entry %d", m.name, idx)
			return result, nil
		}
		result.Similarities[i] = sim
		if sim < tolerance {
			metric.Incr("spot_check_rejected", []string{"reason:" + m.name + "_mismatch"})
			result.Reason = fmt.Sprintf("%s embedding similarity %.4f below tolerance %.4f at entry %d", m.name, sim, tolerance, idx)
			return result, nil
		}
	}

	metric.Incr("spot_check_passed", nil)
	result.Passed = true
	return result, nil
}

func (v *Validator) embedClipWithRetry(ctx context.Context, req embedding.ClipRequest) (*embedding.ClipEmbeddings, error) {
	var lastErr error
	for attempt := 1; attempt <= v.attempts; attempt++ {
		trusted, err := v.embedder.EmbedClip(ctx, req)
		if err == nil {
			return trusted, nil
		}
		lastErr = err
		metric.Incr("spot_check_embed_retry", nil)
		log.Warn().Err(err).Int("attempt", attempt).Str("videoId", req.VideoID).Msg("spot check embed attempt failed")
		if attempt < v.attempts {
			time.Sleep(time.Duration(attempt) * retryBackoff)
		}
	}
	return nil, lastErr
}
