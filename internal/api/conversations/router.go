package conversations

import (
	"github.com/gin-gonic/gin"

	"github.com/zapdesk/zapdesk/internal/loaders"
)

// RegisterRoutes registers the conversation endpoints.
func RegisterRoutes(router *gin.Engine, db *loaders.PostgresClient) {
	ctrl := NewController(db)

	group := router.Group("/api/conversations")
	{
		group.GET("", ctrl.List)
		group.GET("/:phone/messages", ctrl.Messages)
		group.PATCH("/:phone/status", ctrl.UpdateStatus)
	}
}
