package tracing

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	tcr "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	endpointEnv       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	samplerArgEnv     = "OTEL_TRACES_SAMPLER_ARG"
	defaultSampleRate = 0.1
)

var (
	once     sync.Once
	provider *trace.TracerProvider
)

// Init sets up the OTLP trace exporter and global tracer provider. Tracing
// is optional: when the collector endpoint env is unset the process runs
// untraced instead of refusing to start.
func Init() {
	once.Do(func() {
		endpoint := viper.GetString(endpointEnv)
		if endpoint == "" {
			log.Warn().Msgf("%s not set, tracing disabled", endpointEnv)
			return
		}
		serviceName := viper.GetString("APP_NAME")
		if serviceName == "" {
			log.Fatal().Msg("APP_NAME is not set")
		}

		ctx := context.Background()
		exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(endpoint),
		))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create OTLP trace exporter")
		}

		res, err := resource.New(ctx, resource.WithAttributes(
			attribute.String("service.name", serviceName),
		))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build trace resource")
		}

		viper.SetDefault(samplerArgEnv, defaultSampleRate)
		ratio := viper.GetFloat64(samplerArgEnv)

		provider = trace.NewTracerProvider(
			trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
			trace.WithBatcher(exporter),
			trace.WithResource(res),
		)
		otel.SetTracerProvider(provider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{}))
		log.Info().Str("endpoint", endpoint).Float64("ratio", ratio).Msg("tracer initialized")
	})
}

// GetTracer returns a tracer for the named package, or a noop tracer when
// tracing is disabled.
func GetTracer(name string) tcr.Tracer {
	if provider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return provider.Tracer(name)
}

// ShutdownTracer flushes pending spans. Safe to call when tracing is disabled.
func ShutdownTracer() {
	if provider == nil {
		return
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		log.Warn().Err(err).Msg("tracer shutdown failed")
	}
}
