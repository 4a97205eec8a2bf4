package api

import (
	"github.com/spf13/viper"

	"github.com/omega-datasets/curator/internal/server/middlewares"
	"github.com/omega-datasets/curator/pkg/httpframework"
)

const (
	healthCheckPath = "/health"
	topicPath       = "/api/topic"
	topicsPath      = "/api/topics"
	validatePath    = "/api/validate"
	checkScorePath  = "/api/check_score"
	countUniquePath = "/api/count_unique"
)

func Init() {
	r := httpframework.Instance()
	r.GET(healthCheckPath, healthProvider)
	r.GET(topicPath, randomTopic)
	r.GET(topicsPath, allTopics)
	r.POST(validatePath, middlewares.Auth(), validateSubmission)
	env := viper.GetString("APP_ENV")
	if env != "prod" && env != "production" {
		r.POST(checkScorePath, middlewares.Auth(), checkScore)
		r.GET(countUniquePath, countUnique)
	}
}
