package novelty

import (
	"context"
	"errors"
	"sync"

	"github.com/omega-datasets/curator/internal/pipeline"
)

// Memory is an exact cosine scan over all stored vectors, guarded by an
// RWMutex. Suited to single-node runs and tests; QDRANT serves larger
// deployments.
type Memory struct {
	mu      sync.RWMutex
	pos     map[string]int
	ids     []string
	vectors [][]float32
}

func NewMemory() *Memory {
	return &Memory{pos: make(map[string]int)}
}

func (m *Memory) Insert(_ context.Context, id string, vector []float32) error {
	if len(vector) == 0 {
		return errors.New("empty vector")
	}
	stored := make([]float32, len(vector))
	copy(stored, vector)
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.pos[id]; ok {
		m.vectors[i] = stored
		return nil
	}
	m.pos[id] = len(m.ids)
	m.ids = append(m.ids, id)
	m.vectors = append(m.vectors, stored)
	return nil
}

func (m *Memory) NearestSimilarities(_ context.Context, vector []float32, limit int, excludeID string) ([]float64, error) {
	if limit < 1 {
		return nil, errors.New("limit must be >= 1")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// top holds the limit highest similarities in descending order
	top := make([]float64, 0, limit)
	for i, stored := range m.vectors {
		if m.ids[i] == excludeID {
			continue
		}
		sim, err := pipeline.CosineSimilarity(vector, stored)
		if err != nil {
			return nil, err
		}
		pos := len(top)
		for pos > 0 && top[pos-1] < sim {
			pos--
		}
		if pos < limit {
			top = append(top, 0)
			copy(top[pos+1:], top[pos:])
			top[pos] = sim
			if len(top) > limit {
				top = top[:limit]
			}
		}
	}
	return top, nil
}

func (m *Memory) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.ids)), nil
}
