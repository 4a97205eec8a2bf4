package metric

import (
	"sync"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	ExternalApiRequestCount   = "external_api_request_count"
	ExternalApiRequestLatency = "external_api_request_latency"
	ApiRequestCount           = "api_request_count"
	ApiRequestLatency         = "api_request_latency"
	ApiPanicCount             = "api_panic_count"
)

const defaultStatsdAddress = "localhost:8125"

var (
	// one statsd client is safe for concurrent use
	statsDClient = getDefaultClient()
	// zero rate means full sampling
	samplingRate = 0.0
	appName      = ""
	once         sync.Once
)

// Init replaces the default client with one carrying the env/service global
// tags. The statsd address defaults to the local telegraf agent and can be
// overridden via STATSD_ADDRESS.
func Init() {
	once.Do(func() {
		samplingRate = viper.GetFloat64("APP_METRIC_SAMPLING_RATE")
		appName = viper.GetString("APP_NAME")
		address := viper.GetString("STATSD_ADDRESS")
		if address == "" {
			address = defaultStatsdAddress
		}
		globalTags := getGlobalTags()

		client, err := statsd.New(address, statsd.WithTags(globalTags))
		if err != nil {
			log.Panic().AnErr("StatsD client initialization failed", err)
		}
		statsDClient = client
		log.Info().Msgf("Metrics client initialized, address %s, global tags %v, sampling rate %f",
			address, globalTags, samplingRate)
	})
}

func getDefaultClient() *statsd.Client {
	client, _ := statsd.New(defaultStatsdAddress)
	return client
}

func getGlobalTags() []string {
	env := viper.GetString("APP_ENV")
	if len(env) == 0 {
		log.Warn().Msg("APP_ENV is not set")
	}
	service := viper.GetString("APP_NAME")
	if len(service) == 0 {
		log.Warn().Msg("APP_NAME is not set")
	}
	return []string{
		TagAsString(TagEnv, env),
		TagAsString(TagService, service),
	}
}

// Timing sends timing information
func Timing(name string, value time.Duration, tags []string) {
	tags = append(tags, TagAsString(TagService, appName))
	err := statsDClient.Timing(name, value, tags, samplingRate)
	if err != nil {
		log.Warn().AnErr("Error occurred while doing statsd timing", err)
	}
}

// Count Increases metric counter by value
func Count(name string, value int64, tags []string) {
	tags = append(tags, TagAsString(TagService, appName))
	err := statsDClient.Count(name, value, tags, samplingRate)
	if err != nil {
		log.Warn().AnErr("Error occurred while doing statsd count", err)
	}
}

// Incr Increases metric counter by 1
func Incr(name string, tags []string) {
	Count(name, 1, tags)
}

func Gauge(name string, value float64, tags []string) {
	tags = append(tags, TagAsString(TagService, appName))
	err := statsDClient.Gauge(name, value, tags, samplingRate)
	if err != nil {
		log.Warn().AnErr("Error occurred while doing statsd gauge", err)
	}
}
