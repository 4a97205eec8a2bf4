package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coocood/freecache"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/omega-datasets/curator/internal/config/structs"
	httpHelper "github.com/omega-datasets/curator/pkg/api/http"
	"github.com/omega-datasets/curator/pkg/httpclient"
	"github.com/omega-datasets/curator/pkg/metric"
)

const (
	envPrefix     = "EMBEDDING_SERVICE"
	embedClipPath = "/api/v1/embed/clip"
	embedTextPath = "/api/v1/embed/text"
)

type textEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// HTTPEmbedder calls the embedding service over HTTP with an outbound rate
// limiter and a freecache-backed cache for text embeddings.
type HTTPEmbedder struct {
	conn     *httpclient.HTTPClient
	host     string
	port     int
	limiter  *rate.Limiter
	cache    *freecache.Cache
	cacheTTL int
}

func newHTTPEmbedder(cfg structs.Configs) *HTTPEmbedder {
	rps := cfg.EmbeddingCallRps
	if rps <= 0 {
		rps = 10
	}
	cacheSizeMb := cfg.EmbeddingCacheSizeMb
	if cacheSizeMb <= 0 {
		cacheSizeMb = 16
	}
	return &HTTPEmbedder{
		conn:     httpclient.NewConn(envPrefix),
		host:     viper.GetString(envPrefix + httpHelper.Host),
		port:     viper.GetInt(envPrefix + httpHelper.Port),
		limiter:  rate.NewLimiter(rate.Limit(rps), rps),
		cache:    freecache.NewCache(cacheSizeMb * 1024 * 1024),
		cacheTTL: cfg.EmbeddingCacheTtlSeconds,
	}
}

func (h *HTTPEmbedder) EmbedClip(ctx context.Context, req ClipRequest) (*ClipEmbeddings, error) {
	var resp ClipEmbeddings
	if err := h.post(ctx, embedClipPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (h *HTTPEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	cacheKey := []byte("text:" + text)
	if cached, err := h.cache.Get(cacheKey); err == nil {
		var vec []float32
		if err := json.Unmarshal(cached, &vec); err == nil {
			metric.Incr("embedding_cache_hit", []string{"kind:text"})
			return vec, nil
		}
	}
	metric.Incr("embedding_cache_miss", []string{"kind:text"})

	var resp textEmbedResponse
	if err := h.post(ctx, embedTextPath, map[string]string{"text": text}, &resp); err != nil {
		return nil, err
	}
	if encoded, err := json.Marshal(resp.Embedding); err == nil {
		if err := h.cache.Set(cacheKey, encoded, h.cacheTTL); err != nil {
			log.Debug().Err(err).Msg("failed to cache text embedding")
		}
	}
	return resp.Embedding, nil
}

func (h *HTTPEmbedder) post(ctx context.Context, path string, body, out interface{}) error {
	if err := h.limiter.Wait(ctx); err != nil {
		return err
	}
	start := time.Now()
	req, err := httpclient.NewHttpRequestBuilder().
		WithContext(ctx).
		WithHost(h.host).
		WithPort(h.port).
		WithPath(path).
		WithMethod(http.MethodPost).
		WithBody(body).
		BuildContentTypeJson()
	if err != nil {
		return err
	}
	resp, err := h.conn.Do(req)
	if err != nil {
		log.Error().Err(err).Msgf("embedding service call failed for %s", path)
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("embedding service returned status %d for %s", resp.StatusCode, path)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode embedding service response: %w", err)
	}
	metric.Timing("embedding_service_latency", time.Since(start), metric.BuildTag(metric.NewTag(metric.TagPath, path)))
	return nil
}
