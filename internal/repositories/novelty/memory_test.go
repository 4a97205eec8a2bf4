package novelty

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_EmptyIndexReturnsNothing(t *testing.T) {
	m := NewMemory()
	sims, err := m.NearestSimilarities(context.Background(), []float32{1, 0}, 1, "")
	assert.NoError(t, err)
	assert.Empty(t, sims)
}

func TestMemory_FewerEntriesThanLimit(t *testing.T) {
	m := NewMemory()
	assert.NoError(t, m.Insert(context.Background(), "a", []float32{1, 0}))

	sims, err := m.NearestSimilarities(context.Background(), []float32{1, 0}, 2, "")
	assert.NoError(t, err)
	assert.Len(t, sims, 1)
}

func TestMemory_SimilaritiesDescending(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	assert.NoError(t, m.Insert(ctx, "orthogonal", []float32{0, 1}))
	assert.NoError(t, m.Insert(ctx, "exact", []float32{1, 0}))
	assert.NoError(t, m.Insert(ctx, "opposite", []float32{-1, 0}))

	sims, err := m.NearestSimilarities(ctx, []float32{1, 0}, 2, "")
	assert.NoError(t, err)
	assert.Len(t, sims, 2)
	assert.InDelta(t, 1.0, sims[0], 1e-6)
	assert.InDelta(t, 0.0, sims[1], 1e-6)
}

func TestMemory_ExcludedIdIsSkipped(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	assert.NoError(t, m.Insert(ctx, "self", []float32{1, 0}))
	assert.NoError(t, m.Insert(ctx, "other", []float32{0, 1}))

	sims, err := m.NearestSimilarities(ctx, []float32{1, 0}, 1, "self")
	assert.NoError(t, err)
	assert.Len(t, sims, 1)
	assert.InDelta(t, 0.0, sims[0], 1e-6)
}

func TestMemory_InvalidLimitErrors(t *testing.T) {
	m := NewMemory()
	_, err := m.NearestSimilarities(context.Background(), []float32{1, 0}, 0, "")
	assert.Error(t, err)
}

func TestMemory_EmptyVectorInsertErrors(t *testing.T) {
	m := NewMemory()
	assert.Error(t, m.Insert(context.Background(), "a", nil))
}

func TestMemory_InsertCopiesVector(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	v := []float32{1, 0}
	assert.NoError(t, m.Insert(ctx, "a", v))
	v[0] = 0
	v[1] = 1

	sims, err := m.NearestSimilarities(ctx, []float32{1, 0}, 1, "")
	assert.NoError(t, err)
	assert.Len(t, sims, 1)
	assert.InDelta(t, 1.0, sims[0], 1e-6)
}

func TestMemory_InsertSameIdReplaces(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	assert.NoError(t, m.Insert(ctx, "a", []float32{1, 0}))
	assert.NoError(t, m.Insert(ctx, "a", []float32{0, 1}))

	count, err := m.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	sims, err := m.NearestSimilarities(ctx, []float32{1, 0}, 1, "")
	assert.NoError(t, err)
	assert.Len(t, sims, 1)
	assert.InDelta(t, 0.0, sims[0], 1e-6)
}

func TestMemory_Count(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		assert.NoError(t, m.Insert(ctx, fmt.Sprintf("id-%d", i), []float32{1, float32(i)}))
	}
	count, err := m.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestMemory_ConcurrentUse(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = m.Insert(ctx, fmt.Sprintf("id-%d-%d", i, j), []float32{float32(i + 1), float32(j)})
				_, _ = m.NearestSimilarities(ctx, []float32{1, 1}, 1, "")
			}
		}(i)
	}
	wg.Wait()

	count, err := m.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(160), count)
}
