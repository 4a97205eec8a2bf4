package pipeline

import (
	"errors"
	"math"
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// CosineSimilarity returns the cosine of the angle between a and b, clamped
// to [-1, 1]. A zero vector on either side yields 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return clampRange(sim, -1, 1), nil
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CombineEmbeddings builds the single vector representing an entry across
// modalities: a weighted mean of the three embeddings followed by L2
// normalization. The same vector serves relevance scoring and the novelty
// index.
func CombineEmbeddings(video, audio, caption []float32, wVideo, wAudio, wCaption float64) ([]float32, error) {
	if len(video) != len(audio) || len(video) != len(caption) {
		return nil, ErrDimensionMismatch
	}
	total := wVideo + wAudio + wCaption
	if total == 0 {
		return nil, errors.New("combine weights sum to zero")
	}
	combined := make([]float32, len(video))
	for i := range video {
		v := wVideo*float64(video[i]) + wAudio*float64(audio[i]) + wCaption*float64(caption[i])
		combined[i] = float32(v / total)
	}
	return L2Normalize(combined), nil
}

// L2Normalize returns v scaled to unit length. Zero vectors pass through.
func L2Normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
