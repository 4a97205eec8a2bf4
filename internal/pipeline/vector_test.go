package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity_Identical(t *testing.T) {
	v := []float32{0.5, 0.5, 0.5, 0.5}
	sim, err := CosineSimilarity(v, v)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-6)
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	sim, err := CosineSimilarity(a, b)
	assert.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-6)
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{-1, 0}
	sim, err := CosineSimilarity(a, b)
	assert.NoError(t, err)
	assert.InDelta(t, -1.0, sim, 1e-6)
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	sim, err := CosineSimilarity([]float32{0, 0}, []float32{1, 0})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}

// Floating point rounding can push cosine marginally past 1; the result must
// stay inside [-1, 1] because downstream math treats it as a similarity.
func TestCosineSimilarity_Clamped(t *testing.T) {
	v := []float32{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}
	sim, err := CosineSimilarity(v, v)
	assert.NoError(t, err)
	assert.LessOrEqual(t, sim, 1.0)
	assert.GreaterOrEqual(t, sim, -1.0)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 1.0, Clamp01(1.5))
	assert.Equal(t, 0.42, Clamp01(0.42))
}

func TestCombineEmbeddings_UnitNorm(t *testing.T) {
	video := []float32{1, 0, 0}
	audio := []float32{0, 1, 0}
	caption := []float32{0, 0, 1}

	combined, err := CombineEmbeddings(video, audio, caption, 1, 1, 1)
	assert.NoError(t, err)
	assert.Len(t, combined, 3)

	var norm float64
	for _, x := range combined {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestCombineEmbeddings_WeightsShiftResult(t *testing.T) {
	video := []float32{1, 0}
	audio := []float32{0, 1}
	caption := []float32{0, 1}

	combined, err := CombineEmbeddings(video, audio, caption, 10, 1, 1)
	assert.NoError(t, err)

	sim, err := CosineSimilarity(combined, video)
	assert.NoError(t, err)
	assert.Greater(t, sim, 0.9)
}

func TestCombineEmbeddings_DimensionMismatch(t *testing.T) {
	_, err := CombineEmbeddings([]float32{1, 0}, []float32{0, 1, 0}, []float32{0, 1}, 1, 1, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestCombineEmbeddings_ZeroWeightSum(t *testing.T) {
	_, err := CombineEmbeddings([]float32{1}, []float32{1}, []float32{1}, 0, 0, 0)
	assert.Error(t, err)
}

func TestL2Normalize_ZeroVectorPassesThrough(t *testing.T) {
	v := []float32{0, 0, 0}
	assert.Equal(t, v, L2Normalize(v))
}

func TestEntryID_Format(t *testing.T) {
	e := CandidateEntry{VideoID: "vid-1", ClipStart: 1.5, ClipEnd: 9.25}
	assert.Equal(t, "vid-1:1.50:9.25", e.EntryID())
}
