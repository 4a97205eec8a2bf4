package intake

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/config"
	"github.com/omega-datasets/curator/internal/config/enums"
	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/internal/pipeline/accumulator"
	"github.com/omega-datasets/curator/internal/pipeline/scoring"
	"github.com/omega-datasets/curator/internal/pipeline/spotcheck"
	"github.com/omega-datasets/curator/internal/repositories/embedding"
	"github.com/omega-datasets/curator/internal/repositories/novelty"
	"github.com/omega-datasets/curator/internal/repositories/sink"
	"github.com/omega-datasets/curator/pkg/metric"
)

var (
	instance *Handler
	once     sync.Once
)

// Init wires the full pipeline from app config: spot-check validator,
// scoring engine over the configured novelty index, accumulation buffer,
// rate tracker and sink dispatcher.
func Init() {
	once.Do(func() {
		cfg := structs.GetAppConfig().Configs
		manager := config.NewManager(config.DefaultVersion)

		// Log every etcd-driven scoring change; the next submission picks the
		// new weights up through GetScoringConfig.
		if err := manager.RegisterWatchPathCallback("/scoring", func() error {
			updated, err := manager.GetScoringConfig()
			if err != nil {
				return err
			}
			metric.Incr("scoring_config_reload", nil)
			log.Info().
				Float64("weightRelevance", updated.WeightRelevance).
				Float64("weightNovelty", updated.WeightNovelty).
				Float64("weightDetail", updated.WeightDetail).
				Int("neighborRank", updated.NeighborRank).
				Float64("similarityTolerance", updated.SimilarityTolerance).
				Msg("scoring config reloaded")
			return nil
		}); err != nil {
			log.Error().Err(err).Msg("failed to register scoring config watch")
		}

		index := novelty.GetRepository(enums.IndexType(cfg.NoveltyIndexType))
		if index == nil {
			log.Panic().Msgf("unknown NOVELTY_INDEX_TYPE %q", cfg.NoveltyIndexType)
		}
		store := sink.GetRepository(enums.SinkType(cfg.SinkType))
		if store == nil {
			log.Panic().Msgf("unknown SINK_TYPE %q", cfg.SinkType)
		}

		validator := spotcheck.New(embedding.Instance(), manager, cfg.SpotCheckAttempts, nil)
		engine := scoring.New(manager, index, embedding.Instance(), scoring.CombineWeightsFromConfig(cfg))
		buffer := accumulator.NewBuffer(cfg.BaseThreshold, cfg.ThresholdCeiling, cfg.ThresholdStep)
		tracker := accumulator.NewRateTracker(cfg.RateLimit, time.Duration(cfg.RateWindowSeconds)*time.Second, nil)
		dispatcher := NewDispatcher(store, time.Duration(cfg.SinkWriteTimeoutMs)*time.Millisecond, cfg.SinkRetryAttempts)
		dispatcher.Start()

		instance = NewHandler(validator, engine, buffer, tracker, dispatcher)
	})
}

// Instance returns the pipeline handler. Init must be called first.
func Instance() *Handler {
	if instance == nil {
		log.Panic().Msg("intake handler not initialized, call Init first")
	}
	return instance
}

// SetInstance overrides the handler, used by tests.
func SetInstance(h *Handler) {
	instance = h
	once.Do(func() {})
}
