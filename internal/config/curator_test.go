package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/pkg/etcd"
)

func TestGetScoringConfig_SeededSectionWins(t *testing.T) {
	mockEtcd := new(etcd.MockEtcd)
	mockEtcd.On("GetConfigInstance").Return(&structs.DynamicConfigs{
		Scoring: structs.Scoring{
			WeightRelevance:     0.6,
			WeightNovelty:       0.2,
			WeightDetail:        0.2,
			NeighborRank:        2,
			SimilarityTolerance: 0.95,
		},
	})
	m := NewCuratorManager(mockEtcd)

	scoring, err := m.GetScoringConfig()
	assert.NoError(t, err)
	assert.Equal(t, 0.6, scoring.WeightRelevance)
	assert.Equal(t, 2, scoring.NeighborRank)
	assert.Equal(t, 0.95, scoring.SimilarityTolerance)
}

// An unseeded etcd scoring section falls back to static env values.
func TestGetScoringConfig_FallbackToStatic(t *testing.T) {
	static := &structs.GetAppConfig().Configs
	static.ScoreWeightRelevance = 0.5
	static.ScoreWeightNovelty = 0.3
	static.ScoreWeightDetail = 0.2
	static.NoveltyNeighborRank = 1
	static.SimilarityTolerance = 0.98

	mockEtcd := new(etcd.MockEtcd)
	mockEtcd.On("GetConfigInstance").Return(&structs.DynamicConfigs{})
	m := NewCuratorManager(mockEtcd)

	scoring, err := m.GetScoringConfig()
	assert.NoError(t, err)
	assert.Equal(t, 0.5, scoring.WeightRelevance)
	assert.Equal(t, 0.3, scoring.WeightNovelty)
	assert.Equal(t, 0.2, scoring.WeightDetail)
	assert.Equal(t, 1, scoring.NeighborRank)
	assert.Equal(t, 0.98, scoring.SimilarityTolerance)
}

func TestGetScoringConfig_WrongInstanceType(t *testing.T) {
	mockEtcd := new(etcd.MockEtcd)
	mockEtcd.On("GetConfigInstance").Return("not a config")
	m := NewCuratorManager(mockEtcd)

	_, err := m.GetScoringConfig()
	assert.Error(t, err)
}

func TestGetTopics(t *testing.T) {
	mockEtcd := new(etcd.MockEtcd)
	mockEtcd.On("GetConfigInstance").Return(&structs.DynamicConfigs{
		Topics: []string{"street food vendors", "repair workshops"},
	})
	m := NewCuratorManager(mockEtcd)

	topics, err := m.GetTopics()
	assert.NoError(t, err)
	assert.Equal(t, []string{"street food vendors", "repair workshops"}, topics)
}

func TestRegisterWatchPathCallback_DelegatesToEtcd(t *testing.T) {
	mockEtcd := new(etcd.MockEtcd)
	mockEtcd.On("RegisterWatchPathCallback", "/scoring", mock.Anything).Return(nil)
	m := NewCuratorManager(mockEtcd)

	assert.NoError(t, m.RegisterWatchPathCallback("/scoring", func() error { return nil }))
	mockEtcd.AssertCalled(t, "RegisterWatchPathCallback", "/scoring", mock.Anything)
}

func TestGetTopics_EmptyListErrors(t *testing.T) {
	mockEtcd := new(etcd.MockEtcd)
	mockEtcd.On("GetConfigInstance").Return(&structs.DynamicConfigs{})
	m := NewCuratorManager(mockEtcd)

	_, err := m.GetTopics()
	assert.Error(t, err)
}
