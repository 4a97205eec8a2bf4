package config

import (
	"errors"

	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/pkg/etcd"
)

type CuratorManager struct {
	etcd etcd.Etcd
}

// NewCuratorManager creates a CuratorManager with the given etcd client.
// Used for testing with a mock etcd.
func NewCuratorManager(etcd etcd.Etcd) *CuratorManager {
	return &CuratorManager{etcd: etcd}
}

func initCuratorManager() Manager {
	if manager == nil {
		once.Do(func() {
			manager = &CuratorManager{etcd: etcd.Instance()}
		})
	}
	return manager
}

func (c *CuratorManager) dynamicConfig() (*structs.DynamicConfigs, error) {
	dyn, ok := c.etcd.GetConfigInstance().(*structs.DynamicConfigs)
	if !ok {
		return nil, errors.New("failed to cast etcd config instance to DynamicConfigs type")
	}
	if dyn == nil {
		return nil, errors.New("dynamic config not found")
	}
	return dyn, nil
}

// GetScoringConfig returns the etcd-seeded scoring section when present,
// falling back to static env values for any unset knob.
func (c *CuratorManager) GetScoringConfig() (*structs.Scoring, error) {
	dyn, err := c.dynamicConfig()
	if err != nil {
		return nil, err
	}
	static := structs.GetAppConfig().Configs
	scoring := dyn.Scoring
	if scoring.WeightRelevance+scoring.WeightNovelty+scoring.WeightDetail == 0 {
		scoring.WeightRelevance = static.ScoreWeightRelevance
		scoring.WeightNovelty = static.ScoreWeightNovelty
		scoring.WeightDetail = static.ScoreWeightDetail
	}
	if scoring.NeighborRank == 0 {
		scoring.NeighborRank = static.NoveltyNeighborRank
	}
	if scoring.SimilarityTolerance == 0 {
		scoring.SimilarityTolerance = static.SimilarityTolerance
	}
	return &scoring, nil
}

// GetTopics returns the active topic list seeded in etcd.
func (c *CuratorManager) GetTopics() ([]string, error) {
	dyn, err := c.dynamicConfig()
	if err != nil {
		return nil, err
	}
	if len(dyn.Topics) == 0 {
		return nil, errors.New("no topics configured")
	}
	return dyn.Topics, nil
}

func (c *CuratorManager) RegisterWatchPathCallback(path string, callback func() error) error {
	return c.etcd.RegisterWatchPathCallback(path, callback)
}
