package embedding

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/config/structs"
)

var (
	instance Client
	once     sync.Once
)

// Init builds the HTTP embedding client from app config.
func Init() {
	once.Do(func() {
		instance = newHTTPEmbedder(structs.GetAppConfig().Configs)
	})
}

// Instance returns the embedding client. Init must be called first.
func Instance() Client {
	if instance == nil {
		log.Panic().Msg("embedding client not initialized, call Init first")
	}
	return instance
}

// SetInstance overrides the client, used by tests.
func SetInstance(c Client) {
	instance = c
	once.Do(func() {})
}
