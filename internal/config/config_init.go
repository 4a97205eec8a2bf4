package config

import (
	"log"

	"github.com/spf13/viper"

	"github.com/omega-datasets/curator/internal/config/structs"
)

func InitConfig(appConfig *structs.AppConfig) {
	viper.AutomaticEnv()
	staticConfig := appConfig.GetStaticConfig()
	cfg, ok := staticConfig.(*structs.Configs)
	if !ok {
		log.Fatal("Failed to cast static config to *Configs")
	}
	bindEnvVars()
	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatalf("Failed to unmarshal config from environment: %v", err)
	}
}

func bindEnvVars() {
	viper.BindEnv("app_name", "APP_NAME")
	viper.BindEnv("app_env", "APP_ENV")
	viper.BindEnv("auth_tokens", "AUTH_TOKENS")
	viper.BindEnv("port", "PORT")
	viper.BindEnv("embedding_dimension", "EMBEDDING_DIMENSION")
	viper.BindEnv("similarity_tolerance", "SIMILARITY_TOLERANCE")
	viper.BindEnv("spot_check_attempts", "SPOT_CHECK_ATTEMPTS")
	viper.BindEnv("score_weight_relevance", "SCORE_WEIGHT_RELEVANCE")
	viper.BindEnv("score_weight_novelty", "SCORE_WEIGHT_NOVELTY")
	viper.BindEnv("score_weight_detail", "SCORE_WEIGHT_DETAIL")
	viper.BindEnv("combine_weight_video", "COMBINE_WEIGHT_VIDEO")
	viper.BindEnv("combine_weight_audio", "COMBINE_WEIGHT_AUDIO")
	viper.BindEnv("combine_weight_caption", "COMBINE_WEIGHT_CAPTION")
	viper.BindEnv("novelty_neighbor_rank", "NOVELTY_NEIGHBOR_RANK")
	viper.BindEnv("novelty_index_type", "NOVELTY_INDEX_TYPE")
	viper.BindEnv("base_threshold", "BASE_THRESHOLD")
	viper.BindEnv("threshold_ceiling", "THRESHOLD_CEILING")
	viper.BindEnv("threshold_step", "THRESHOLD_STEP")
	viper.BindEnv("rate_limit", "RATE_LIMIT")
	viper.BindEnv("rate_window_seconds", "RATE_WINDOW_SECONDS")
	viper.BindEnv("embedding_call_rps", "EMBEDDING_CALL_RPS")
	viper.BindEnv("embedding_cache_size_mb", "EMBEDDING_CACHE_SIZE_MB")
	viper.BindEnv("embedding_cache_ttl_seconds", "EMBEDDING_CACHE_TTL_SECONDS")
	viper.BindEnv("sink_type", "SINK_TYPE")
	viper.BindEnv("sink_write_timeout_ms", "SINK_WRITE_TIMEOUT_MS")
	viper.BindEnv("sink_retry_attempts", "SINK_RETRY_ATTEMPTS")
	viper.BindEnv("sink_producer_kafka_id", "SINK_PRODUCER_KAFKA_ID")
	viper.BindEnv("submission_consumer_kafka_ids", "SUBMISSION_CONSUMER_KAFKA_IDS")
	viper.BindEnv("redis_addr", "REDIS_ADDR")
	viper.BindEnv("redis_password", "REDIS_PASSWORD")
	viper.BindEnv("redis_db", "REDIS_DB")
	viper.BindEnv("scylla_hosts", "SCYLLA_HOSTS")
	viper.BindEnv("scylla_keyspace", "SCYLLA_KEYSPACE")
	viper.BindEnv("scylla_table", "SCYLLA_TABLE")
	viper.BindEnv("scylla_username", "SCYLLA_USERNAME")
	viper.BindEnv("scylla_password", "SCYLLA_PASSWORD")
	viper.BindEnv("scylla_timeout_ms", "SCYLLA_TIMEOUT_MS")
	viper.BindEnv("etcd_server", "ETCD_SERVER")
	viper.BindEnv("etcd_username", "ETCD_USERNAME")
	viper.BindEnv("etcd_password", "ETCD_PASSWORD")
	viper.BindEnv("etcd_watcher_enabled", "ETCD_WATCHER_ENABLED")
	viper.BindEnv("qdrant_host", "QDRANT_HOST")
	viper.BindEnv("qdrant_port", "QDRANT_PORT")
	viper.BindEnv("qdrant_collection", "QDRANT_COLLECTION")
	viper.BindEnv("qdrant_deadline_ms", "QDRANT_DEADLINE_MS")
	viper.BindEnv("hard_shutdown_deadline_ms", "HARD_SHUTDOWN_DEADLINE_MS")
}
