package settings

import (
	"github.com/gin-gonic/gin"

	"github.com/zapdesk/zapdesk/internal/loaders"
)

// RegisterRoutes registers the settings document endpoints.
func RegisterRoutes(router *gin.Engine, db *loaders.PostgresClient, selector ProviderSelector) {
	ctrl := NewController(db, selector)

	group := router.Group("/api/settings")
	{
		group.GET("/:key", ctrl.Get)
		group.POST("/:key", ctrl.Save)
	}
}
