package infra

import (
	"strings"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"github.com/omega-datasets/curator/internal/config/structs"
)

var (
	scyllaSession *gocql.Session
	scyllaOnce    sync.Once
)

// InitScylla initializes the shared Scylla session from app config.
func InitScylla() {
	scyllaOnce.Do(func() {
		cfg := structs.GetAppConfig().Configs
		if cfg.ScyllaHosts == "" || cfg.ScyllaKeyspace == "" {
			panic("scylla hosts or keyspace is not set")
		}
		cluster := gocql.NewCluster(strings.Split(cfg.ScyllaHosts, ",")...)
		cluster.Keyspace = cfg.ScyllaKeyspace
		cluster.Consistency = gocql.Quorum
		if cfg.ScyllaTimeoutMs > 0 {
			cluster.Timeout = time.Duration(cfg.ScyllaTimeoutMs) * time.Millisecond
		}
		if cfg.ScyllaUsername != "" {
			cluster.Authenticator = gocql.PasswordAuthenticator{
				Username: cfg.ScyllaUsername,
				Password: cfg.ScyllaPassword,
			}
		}
		session, err := cluster.CreateSession()
		if err != nil {
			panic("scylla session creation failed: " + err.Error())
		}
		scyllaSession = session
	})
}

// GetScyllaSession returns the shared Scylla session. InitScylla must be called first.
func GetScyllaSession() *gocql.Session {
	return scyllaSession
}
