package httpframework

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/omega-datasets/curator/pkg/middleware"
)

var (
	router *gin.Engine
	once   sync.Once
)

// Init builds the shared gin engine. The baseline middleware chain is
// otelgin tracing, access logging and panic recovery; callers may prepend
// extra middlewares.
func Init(middlewares ...gin.HandlerFunc) {
	once.Do(func() {
		appName := viper.GetString("APP_NAME")
		if appName == "" {
			log.Fatal().Msg("APP_NAME is not set")
		}
		switch viper.GetString("APP_ENV") {
		case "prod", "production":
			gin.SetMode(gin.ReleaseMode)
		}
		router = gin.New()
		router.Use(middlewares...)
		router.Use(otelgin.Middleware(appName), middleware.HTTPLogger(), middleware.HTTPRecovery())
	})
}

// Instance returns the shared gin engine. Init must be called first.
func Instance() *gin.Engine {
	if router == nil {
		log.Fatal().Msg("http framework not initialized, call Init first")
	}
	return router
}

// ResetForTesting clears the shared engine so tests can re-init.
func ResetForTesting() {
	router = nil
	once = sync.Once{}
}
