package novelty

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDatabase is a mock implementation of the Database interface for testing.
type MockDatabase struct {
	mock.Mock
}

var _ Database = (*MockDatabase)(nil)

func (m *MockDatabase) Insert(ctx context.Context, id string, vector []float32) error {
	args := m.Called(ctx, id, vector)
	return args.Error(0)
}

func (m *MockDatabase) NearestSimilarities(ctx context.Context, vector []float32, limit int, excludeID string) ([]float64, error) {
	args := m.Called(ctx, vector, limit, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockDatabase) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
