package config

import (
	"github.com/stretchr/testify/mock"

	"github.com/omega-datasets/curator/internal/config/structs"
)

// MockManager is a mock implementation of the Manager interface for testing.
type MockManager struct {
	mock.Mock
}

var _ Manager = (*MockManager)(nil)

func (m *MockManager) GetScoringConfig() (*structs.Scoring, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*structs.Scoring), args.Error(1)
}

func (m *MockManager) GetTopics() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockManager) RegisterWatchPathCallback(path string, callback func() error) error {
	args := m.Called(path, callback)
	return args.Error(0)
}
