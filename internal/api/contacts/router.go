package contacts

import (
	"github.com/gin-gonic/gin"

	"github.com/zapdesk/zapdesk/internal/loaders"
	"github.com/zapdesk/zapdesk/internal/utils"
)

// RegisterRoutes registers the contact endpoints. The sync service is shared
// with the webhook pipeline, which triggers it on connection events.
func RegisterRoutes(router *gin.Engine, db *loaders.PostgresClient, sync *SyncService) {
	ctrl := NewController(db, sync)

	group := router.Group("/api/contacts")
	{
		group.GET("", ctrl.List)
		group.POST("", ctrl.Create)
		group.DELETE("/:phone", ctrl.Delete)
		group.POST("/sync", ctrl.Sync)
	}

	utils.Zlog.Info("Contact routes registered")
}
