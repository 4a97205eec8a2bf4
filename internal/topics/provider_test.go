package topics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omega-datasets/curator/internal/config"
)

func TestProvider_All(t *testing.T) {
	mockManager := new(config.MockManager)
	mockManager.On("GetTopics").Return([]string{"street food vendors", "repair workshops"}, nil)

	p := NewProvider(mockManager, nil)
	list, err := p.All()
	assert.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestProvider_RandomPicksFromList(t *testing.T) {
	mockManager := new(config.MockManager)
	mockManager.On("GetTopics").Return([]string{"street food vendors", "repair workshops", "night markets"}, nil)

	p := NewProvider(mockManager, func(n int) int { return n - 1 })
	topic, err := p.Random()
	assert.NoError(t, err)
	assert.Equal(t, "night markets", topic)
}

func TestProvider_RandomPropagatesError(t *testing.T) {
	mockManager := new(config.MockManager)
	mockManager.On("GetTopics").Return(nil, errors.New("no topics configured"))

	p := NewProvider(mockManager, nil)
	_, err := p.Random()
	assert.Error(t, err)
}
