package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/pipeline"
	"github.com/omega-datasets/curator/internal/pipeline/intake"
	"github.com/omega-datasets/curator/internal/server/middlewares"
)

type entryScore struct {
	EntryID        string  `json:"entry_id"`
	Relevance      float64 `json:"relevance"`
	Novelty        float64 `json:"novelty"`
	DetailRichness float64 `json:"detail_richness"`
	Composite      float64 `json:"composite"`
}

type validateResponse struct {
	SubmissionID string       `json:"submission_id"`
	Accepted     bool         `json:"accepted"`
	Score        float64      `json:"score"`
	Reason       string       `json:"reason,omitempty"`
	EntryScores  []entryScore `json:"entry_scores,omitempty"`
}

func entryScores(scored []pipeline.ScoredEntry) []entryScore {
	out := make([]entryScore, 0, len(scored))
	for _, s := range scored {
		out = append(out, entryScore{
			EntryID:        s.Entry.EntryID(),
			Relevance:      s.Relevance,
			Novelty:        s.Novelty,
			DetailRichness: s.DetailRichness,
			Composite:      s.Composite,
		})
	}
	return out
}

func bindSubmission(c *gin.Context) (*pipeline.Submission, bool) {
	var sub pipeline.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission payload: " + err.Error()})
		return nil, false
	}
	if sub.SubmitterID == "" {
		sub.SubmitterID = c.GetHeader(middlewares.CallerIdHeader)
	}
	if sub.SubmissionID == "" {
		sub.SubmissionID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	return &sub, true
}

// validateSubmission runs the full pipeline: spot check, scoring, novelty
// insert and accumulation. The reported score is the mean composite over
// the 8 entries, zero on rejection.
func validateSubmission(c *gin.Context) {
	sub, ok := bindSubmission(c)
	if !ok {
		return
	}
	verdict, err := intake.Instance().Process(c.Request.Context(), sub)
	if err != nil {
		if errors.Is(err, intake.ErrStopped) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shutting down"})
			return
		}
		log.Error().Err(err).Str("submissionId", sub.SubmissionID).Msg("submission processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "submission could not be processed"})
		return
	}
	c.JSON(http.StatusOK, validateResponse{
		SubmissionID: sub.SubmissionID,
		Accepted:     verdict.Accepted,
		Score:        verdict.Score,
		Reason:       verdict.Reason,
		EntryScores:  entryScores(verdict.Entries),
	})
}

// checkScore previews per-entry scores without touching the novelty index or
// the buffer. Registered only outside prod.
func checkScore(c *gin.Context) {
	sub, ok := bindSubmission(c)
	if !ok {
		return
	}
	scored, err := intake.Instance().Engine().Preview(c.Request.Context(), sub)
	if err != nil {
		log.Error().Err(err).Str("submissionId", sub.SubmissionID).Msg("score preview failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "score preview failed"})
		return
	}
	var total float64
	for _, s := range scored {
		total += s.Composite
	}
	score := 0.0
	if len(scored) > 0 {
		score = total / float64(len(scored))
	}
	c.JSON(http.StatusOK, validateResponse{
		SubmissionID: sub.SubmissionID,
		Accepted:     true,
		Score:        score,
		EntryScores:  entryScores(scored),
	})
}
