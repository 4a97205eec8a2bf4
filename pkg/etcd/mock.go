package etcd

import (
	"github.com/stretchr/testify/mock"
)

// MockEtcd is a mock implementation of the Etcd interface for testing.
type MockEtcd struct {
	mock.Mock
}

var _ Etcd = (*MockEtcd)(nil)

// GetConfigInstance returns the mock config instance.
func (m *MockEtcd) GetConfigInstance() interface{} {
	args := m.Called()
	return args.Get(0)
}

// SetValue mocks setting a value at the given path.
func (m *MockEtcd) SetValue(path string, value interface{}) error {
	args := m.Called(path, value)
	return args.Error(0)
}

// IsNodeExist mocks checking if a node exists.
func (m *MockEtcd) IsNodeExist(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

// RegisterWatchPathCallback mocks registering a watch callback.
func (m *MockEtcd) RegisterWatchPathCallback(path string, callback func() error) error {
	args := m.Called(path, callback)
	return args.Error(0)
}
