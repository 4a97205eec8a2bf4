package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/pipeline/intake"
)

// countUnique reports how many entries the novelty index holds. Debug
// surface, registered only outside prod.
func countUnique(c *gin.Context) {
	count, err := intake.Instance().Engine().Index().Count(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("novelty index count failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "novelty index unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unique_entries": count})
}
