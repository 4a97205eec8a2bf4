package sink

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of the Store interface for testing.
type MockStore struct {
	mock.Mock
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) Append(ctx context.Context, batch *Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}
