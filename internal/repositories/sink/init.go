package sink

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/config/enums"
	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/pkg/infra"
)

var (
	store    Store
	syncOnce sync.Once
)

// GetRepository returns the dataset sink backend for the given type.
func GetRepository(sinkType enums.SinkType) Store {
	switch sinkType {
	case enums.KAFKA:
		return initKafkaInstance()
	case enums.SCYLLA:
		return initScyllaInstance()
	default:
		return nil
	}
}

func initKafkaInstance() Store {
	if store == nil {
		syncOnce.Do(func() {
			cfg := structs.GetAppConfig().Configs
			infra.InitRedis()
			store = newKafka(cfg.SinkProducerKafkaId, infra.GetRedisClient())
		})
	}
	return store
}

func initScyllaInstance() Store {
	if store == nil {
		syncOnce.Do(func() {
			cfg := structs.GetAppConfig().Configs
			infra.InitScylla()
			if cfg.ScyllaTable == "" {
				log.Panic().Msg("SCYLLA_TABLE is not set")
			}
			store = newScylla(infra.GetScyllaSession(), cfg.ScyllaKeyspace, cfg.ScyllaTable)
		})
	}
	return store
}
