package embedding

import (
	"context"

	"github.com/omega-datasets/curator/internal/pipeline"
)

// ClipRequest identifies the clip to re-embed server side.
type ClipRequest struct {
	VideoID   string           `json:"video_id"`
	ClipStart float64          `json:"clip_start"`
	ClipEnd   float64          `json:"clip_end"`
	Caption   pipeline.Caption `json:"caption"`
}

// ClipEmbeddings is the trusted re-embedding of a clip, one vector per modality.
type ClipEmbeddings struct {
	Video   []float32 `json:"video"`
	Audio   []float32 `json:"audio"`
	Caption []float32 `json:"caption"`
}

// Client talks to the embedding service. Implementations must be safe for
// concurrent use.
type Client interface {
	// EmbedClip downloads and re-embeds the clip. An unreachable or
	// undecodable clip is returned as an error.
	EmbedClip(ctx context.Context, req ClipRequest) (*ClipEmbeddings, error)
	// EmbedText embeds free text into the shared embedding space. Used for
	// topic reference embeddings.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}
