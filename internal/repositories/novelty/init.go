package novelty

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/config/enums"
	"github.com/omega-datasets/curator/internal/config/structs"
)

var (
	index    Database
	syncOnce sync.Once
)

// GetRepository returns the novelty index backend for the given type.
func GetRepository(indexType enums.IndexType) Database {
	switch indexType {
	case enums.MEMORY:
		return initMemoryInstance()
	case enums.QDRANT:
		return initQdrantInstance()
	default:
		return nil
	}
}

func initMemoryInstance() Database {
	if index == nil {
		syncOnce.Do(func() {
			index = NewMemory()
		})
	}
	return index
}

func initQdrantInstance() Database {
	if index == nil {
		syncOnce.Do(func() {
			q, err := newQdrant(structs.GetAppConfig().Configs)
			if err != nil {
				log.Panic().Err(err).Msg("failed to initialize qdrant novelty index")
			}
			index = q
		})
	}
	return index
}
