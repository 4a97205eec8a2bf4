package etcd

import (
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	instance Etcd
	initOnce sync.Once
)

// Init initializes the Etcd client, to be called from main.go
func Init(config interface{}) {
	initOnce.Do(func() {
		instance = newV1Etcd(config)
	})
}

// Instance returns the Etcd client instance. Ensure that Init is called before calling this function
func Instance() Etcd {
	if instance == nil {
		log.Panic().Msg("etcd client not initialized, call Init first")
	}
	return instance
}

// SetMockInstance sets the mock instance of Etcd client
// This would be handy in places where we are directly using Etcd as etcd.Instance()
func SetMockInstance(mock Etcd) {
	instance = mock
}
