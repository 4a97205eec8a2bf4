package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/pkg/metric"
)

const healthRoute = "/health"

// HTTPLogger emits request count and latency metrics per route and an
// access log line. Health probes are measured but not logged.
func HTTPLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()

		tags := metric.BuildTag(
			metric.NewTag(metric.TagPath, route),
			metric.NewTag(metric.TagMethod, c.Request.Method),
			metric.NewTag(metric.TagHttpStatusCode, strconv.Itoa(status)),
		)
		metric.Incr(metric.ApiRequestCount, tags)
		metric.Timing(metric.ApiRequestLatency, latency, tags)

		if route == healthRoute {
			return
		}
		log.Info().
			Str("clientIp", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("latency", latency).
			Msg("request served")
	}
}
