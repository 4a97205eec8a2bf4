package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/pkg/metric"
)

// HTTPRecovery recovers from panics in handlers and returns a 500
func HTTPRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				route := c.FullPath()
				if route == "" {
					route = "unknown"
				}
				log.Error().Msgf("[panic] recovered on %s %s: %v\n%s", c.Request.Method, route, r, debug.Stack())
				metric.Incr(metric.ApiPanicCount, metric.BuildTag(
					metric.NewTag(metric.TagPath, route),
					metric.NewTag(metric.TagMethod, c.Request.Method),
				))
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
