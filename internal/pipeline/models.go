package pipeline

import (
	"fmt"
	"time"
)

// SubmissionSize is the fixed number of clip entries per submission.
const SubmissionSize = 8

// Caption carries the textual description submitted alongside a clip.
type Caption struct {
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

// CandidateEntry is one untrusted clip entry of a submission. Embeddings are
// submitter-computed and verified via spot check before any use.
type CandidateEntry struct {
	VideoID          string    `json:"video_id"`
	ClipStart        float64   `json:"clip_start"`
	ClipEnd          float64   `json:"clip_end"`
	Caption          Caption   `json:"caption"`
	EmbeddingVideo   []float32 `json:"embedding_video"`
	EmbeddingAudio   []float32 `json:"embedding_audio"`
	EmbeddingCaption []float32 `json:"embedding_caption"`
}

// EntryID identifies an entry inside the novelty index and the dataset sink.
func (e *CandidateEntry) EntryID() string {
	return fmt.Sprintf("%s:%.2f:%.2f", e.VideoID, e.ClipStart, e.ClipEnd)
}

// Submission is an atomic unit of exactly SubmissionSize entries from one
// submitter against one topic.
type Submission struct {
	SubmissionID string           `json:"submission_id"`
	SubmitterID  string           `json:"submitter_id"`
	Topic        string           `json:"topic"`
	Entries      []CandidateEntry `json:"entries"`
	SubmittedAt  time.Time        `json:"submitted_at"`
}

// ScoredEntry is an accepted entry with its three factor scores and the
// composite, all in [0,1].
type ScoredEntry struct {
	Entry          CandidateEntry `json:"entry"`
	SubmitterID    string         `json:"submitter_id"`
	Topic          string         `json:"topic"`
	Relevance      float64        `json:"relevance"`
	Novelty        float64        `json:"novelty"`
	DetailRichness float64        `json:"detail_richness"`
	Composite      float64        `json:"composite"`
}

// Verdict is the outcome of one submission run.
type Verdict struct {
	Accepted bool          `json:"accepted"`
	Reason   string        `json:"reason,omitempty"`
	Score    float64       `json:"score"`
	Entries  []ScoredEntry `json:"entries,omitempty"`
}
