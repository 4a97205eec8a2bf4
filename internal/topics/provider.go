package topics

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/config"
)

var (
	provider *Provider
	once     sync.Once
)

// Provider serves the active topic list from the etcd-backed config. Topics
// may rotate between submissions; every call re-reads the live list.
type Provider struct {
	manager config.Manager
	randInt func(n int) int
}

// NewProvider builds a Provider. randInt may be nil; tests inject a
// deterministic one.
func NewProvider(manager config.Manager, randInt func(n int) int) *Provider {
	if randInt == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		randInt = rng.Intn
	}
	return &Provider{manager: manager, randInt: randInt}
}

// Init wires the singleton Provider against the live config manager.
func Init() {
	once.Do(func() {
		provider = NewProvider(config.NewManager(config.DefaultVersion), nil)
	})
}

// Instance returns the topic provider. Init must be called first.
func Instance() *Provider {
	if provider == nil {
		log.Panic().Msg("topic provider not initialized, call Init first")
	}
	return provider
}

// SetInstance overrides the provider, used by tests.
func SetInstance(p *Provider) {
	provider = p
	once.Do(func() {})
}

// All returns the current topic list.
func (p *Provider) All() ([]string, error) {
	return p.manager.GetTopics()
}

// Random returns one uniformly picked topic from the current list.
func (p *Provider) Random() (string, error) {
	list, err := p.manager.GetTopics()
	if err != nil {
		return "", err
	}
	return list[p.randInt(len(list))], nil
}
