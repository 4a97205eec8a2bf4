package middlewares

import (
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/pkg/metric"
)

const (
	CallerIdHeader  = "curator-caller-id"
	AuthTokenHeader = "curator-auth-token"
)

var (
	authTokens string
	initOnce   sync.Once
)

func Init() {
	initOnce.Do(func() {
		authTokens = structs.GetAppConfig().Configs.AuthTokens
	})
}

// Auth validates the caller-id and auth-token headers against the configured
// token list before the request reaches any handler.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerId := c.GetHeader(CallerIdHeader)
		if callerId == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": CallerIdHeader + " header is missing"})
			return
		}
		token := c.GetHeader(AuthTokenHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": AuthTokenHeader + " header is missing"})
			return
		}
		if !isAuthorized(token) {
			metric.Incr("auth_rejected", metric.BuildTag(metric.NewTag("caller", callerId)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth token"})
			return
		}
		c.Next()
	}
}

func isAuthorized(token string) bool {
	if len(authTokens) == 0 {
		log.Panic().Msgf("AuthTokens not set")
	}
	tokens := strings.Split(authTokens, ",")
	return slices.Contains(tokens, token)
}
