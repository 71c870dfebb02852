package stats

import (
	"github.com/gin-gonic/gin"

	"github.com/zapdesk/zapdesk/internal/loaders"
)

// RegisterRoutes registers the stats endpoints.
func RegisterRoutes(router *gin.Engine, db *loaders.PostgresClient) {
	ctrl := NewController(db)
	router.GET("/api/stats/messages-by-day", ctrl.MessagesByDay)
}
