package config

import (
	"github.com/omega-datasets/curator/internal/config/structs"
)

// Manager exposes the runtime-tunable configuration backed by etcd. Static
// env values act as defaults when a section has not been seeded.
type Manager interface {
	GetScoringConfig() (*structs.Scoring, error)
	GetTopics() ([]string, error)
	RegisterWatchPathCallback(path string, callback func() error) error
}
