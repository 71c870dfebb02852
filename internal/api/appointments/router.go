package appointments

import (
	"github.com/gin-gonic/gin"

	"github.com/zapdesk/zapdesk/internal/loaders"
)

// RegisterRoutes registers the agenda endpoints.
func RegisterRoutes(router *gin.Engine, db *loaders.PostgresClient) {
	ctrl := NewController(db)

	group := router.Group("/api/appointments")
	{
		group.GET("", ctrl.List)
		group.PUT("/:id", ctrl.Update)
		group.DELETE("/:id", ctrl.Delete)
	}
}
