package intake

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/pipeline"
	"github.com/omega-datasets/curator/internal/pipeline/accumulator"
	"github.com/omega-datasets/curator/internal/pipeline/scoring"
	"github.com/omega-datasets/curator/internal/pipeline/spotcheck"
	"github.com/omega-datasets/curator/pkg/metric"
)

// Handler runs the full per-submission pipeline: spot check, rate
// observation, scoring, accumulation and flush dispatch. It owns the buffer
// and the rate tracker; the novelty index is owned by the scoring engine.
type Handler struct {
	validator  *spotcheck.Validator
	engine     *scoring.Engine
	buffer     *accumulator.Buffer
	tracker    *accumulator.RateTracker
	dispatcher *Dispatcher

	mu       sync.Mutex
	inFlight sync.WaitGroup
	stopped  bool
}

func NewHandler(validator *spotcheck.Validator, engine *scoring.Engine, buffer *accumulator.Buffer,
	tracker *accumulator.RateTracker, dispatcher *Dispatcher) *Handler {
	return &Handler{
		validator:  validator,
		engine:     engine,
		buffer:     buffer,
		tracker:    tracker,
		dispatcher: dispatcher,
	}
}

// Engine exposes the scoring engine for preview-only callers.
func (h *Handler) Engine() *scoring.Engine {
	return h.engine
}

// Process runs one submission through the pipeline and returns its verdict.
// A rejected submission contributes nothing: no index inserts survive a spot
// check failure and the buffer is untouched.
func (h *Handler) Process(ctx context.Context, sub *pipeline.Submission) (*pipeline.Verdict, error) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return nil, ErrStopped
	}
	h.inFlight.Add(1)
	h.mu.Unlock()
	defer h.inFlight.Done()

	startTime := time.Now()

	check, err := h.validator.Validate(ctx, sub)
	if err != nil {
		return nil, err
	}
	if !check.Passed {
		metric.Incr("submission_rejected", nil)
		log.Info().Str("submissionId", sub.SubmissionID).Str("submitterId", sub.SubmitterID).
			Int("checkedIndex", check.CheckedIndex).Str("reason", check.Reason).Msg("submission rejected by spot check")
		return &pipeline.Verdict{Accepted: false, Reason: check.Reason, Score: 0}, nil
	}

	// Only accepted submissions count toward the rate window; a flood of
	// rejects cannot raise the flush threshold.
	if h.tracker.Observe(sub.SubmitterID) {
		h.buffer.RaiseThreshold()
		metric.Incr("rate_limit_threshold_raise", nil)
		log.Warn().Str("submitterId", sub.SubmitterID).Int("threshold", h.buffer.Threshold()).
			Msg("submitter exceeded rate window, flush threshold raised")
	}

	scored, err := h.engine.ScoreSubmission(ctx, sub)
	if err != nil {
		metric.Incr("submission_scoring_error", nil)
		return nil, err
	}

	if err := h.buffer.Append(scored); err != nil {
		return nil, err
	}
	if flushed := h.buffer.MaybeFlush(); flushed != nil {
		metric.Count("buffer_flush_entries", int64(len(flushed)), nil)
		h.dispatcher.Enqueue(flushed)
	}

	var total float64
	for _, s := range scored {
		total += s.Composite
	}
	score := total / float64(len(scored))

	metric.Incr("submission_accepted", nil)
	metric.Timing("submission_pipeline_latency", time.Since(startTime), nil)
	return &pipeline.Verdict{Accepted: true, Score: score, Entries: scored}, nil
}

// Shutdown stops intake, waits for in-flight submissions, force-flushes the
// buffer and drains the dispatcher within the hard deadline.
func (h *Handler) Shutdown(deadline time.Duration) {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()

	h.inFlight.Wait()

	if remaining := h.buffer.ForceFlush(); remaining != nil {
		log.Info().Int("entries", len(remaining)).Msg("force-flushing accumulation buffer on shutdown")
		h.dispatcher.Enqueue(remaining)
	}
	h.dispatcher.Shutdown(deadline)
}
