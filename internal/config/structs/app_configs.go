package structs

var (
	appConfig AppConfig
)

type AppConfig struct {
	Configs        Configs
	DynamicConfigs DynamicConfigs
}

func (cfg *AppConfig) GetStaticConfig() interface{} {
	return &cfg.Configs
}

func (cfg *AppConfig) GetDynamicConfig() interface{} {
	return &cfg.DynamicConfigs
}

func GetAppConfig() *AppConfig {
	return &appConfig
}

type Configs struct {
	AppName                    string  `mapstructure:"app_name"`
	AppEnv                     string  `mapstructure:"app_env"`
	AuthTokens                 string  `mapstructure:"auth_tokens"`
	Port                       int     `mapstructure:"port"`
	EmbeddingDimension         int     `mapstructure:"embedding_dimension"`
	SimilarityTolerance        float64 `mapstructure:"similarity_tolerance"`
	SpotCheckAttempts          int     `mapstructure:"spot_check_attempts"`
	ScoreWeightRelevance       float64 `mapstructure:"score_weight_relevance"`
	ScoreWeightNovelty         float64 `mapstructure:"score_weight_novelty"`
	ScoreWeightDetail          float64 `mapstructure:"score_weight_detail"`
	CombineWeightVideo         float64 `mapstructure:"combine_weight_video"`
	CombineWeightAudio         float64 `mapstructure:"combine_weight_audio"`
	CombineWeightCaption       float64 `mapstructure:"combine_weight_caption"`
	NoveltyNeighborRank        int     `mapstructure:"novelty_neighbor_rank"`
	NoveltyIndexType           string  `mapstructure:"novelty_index_type"`
	BaseThreshold              int     `mapstructure:"base_threshold"`
	ThresholdCeiling           int     `mapstructure:"threshold_ceiling"`
	ThresholdStep              int     `mapstructure:"threshold_step"`
	RateLimit                  int     `mapstructure:"rate_limit"`
	RateWindowSeconds          int     `mapstructure:"rate_window_seconds"`
	EmbeddingCallRps           int     `mapstructure:"embedding_call_rps"`
	EmbeddingCacheSizeMb       int     `mapstructure:"embedding_cache_size_mb"`
	EmbeddingCacheTtlSeconds   int     `mapstructure:"embedding_cache_ttl_seconds"`
	SinkType                   string  `mapstructure:"sink_type"`
	SinkWriteTimeoutMs         int     `mapstructure:"sink_write_timeout_ms"`
	SinkRetryAttempts          int     `mapstructure:"sink_retry_attempts"`
	SinkProducerKafkaId        int     `mapstructure:"sink_producer_kafka_id"`
	SubmissionConsumerKafkaIds string  `mapstructure:"submission_consumer_kafka_ids"`
	RedisAddr                  string  `mapstructure:"redis_addr"`
	RedisPassword              string  `mapstructure:"redis_password"`
	RedisDB                    int     `mapstructure:"redis_db"`
	ScyllaHosts                string  `mapstructure:"scylla_hosts"`
	ScyllaKeyspace             string  `mapstructure:"scylla_keyspace"`
	ScyllaTable                string  `mapstructure:"scylla_table"`
	ScyllaUsername             string  `mapstructure:"scylla_username"`
	ScyllaPassword             string  `mapstructure:"scylla_password"`
	ScyllaTimeoutMs            int     `mapstructure:"scylla_timeout_ms"`
	EtcdServer                 string  `mapstructure:"etcd_server"`
	EtcdUsername               string  `mapstructure:"etcd_username"`
	EtcdPassword               string  `mapstructure:"etcd_password"`
	EtcdWatcherEnabled         bool    `mapstructure:"etcd_watcher_enabled"`
	QdrantHost                 string  `mapstructure:"qdrant_host"`
	QdrantPort                 int     `mapstructure:"qdrant_port"`
	QdrantCollection           string  `mapstructure:"qdrant_collection"`
	QdrantDeadlineMs           int     `mapstructure:"qdrant_deadline_ms"`
	HardShutdownDeadlineMs     int     `mapstructure:"hard_shutdown_deadline_ms"`
}

// DynamicConfigs holds the etcd-backed configuration tree. Each top-level
// field is one JSON section under /config/<app-name>.
type DynamicConfigs struct {
	Scoring Scoring  `json:"scoring"`
	Topics  []string `json:"topics"`
}

// Scoring carries the runtime-tunable scoring knobs. Zero weights mean the
// section has not been seeded and static env values apply.
type Scoring struct {
	WeightRelevance     float64 `json:"weight_relevance"`
	WeightNovelty       float64 `json:"weight_novelty"`
	WeightDetail        float64 `json:"weight_detail"`
	NeighborRank        int     `json:"neighbor_rank"`
	SimilarityTolerance float64 `json:"similarity_tolerance"`
}
