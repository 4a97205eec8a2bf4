package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/topics"
)

func randomTopic(c *gin.Context) {
	topic, err := topics.Instance().Random()
	if err != nil {
		log.Error().Err(err).Msg("topic selection failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no topics configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic})
}

func allTopics(c *gin.Context) {
	list, err := topics.Instance().All()
	if err != nil {
		log.Error().Err(err).Msg("topic listing failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no topics configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": list})
}
