package messages

import (
	"github.com/gin-gonic/gin"

	"github.com/zapdesk/zapdesk/internal/loaders"
)

// RegisterRoutes registers the outbound send endpoint.
func RegisterRoutes(router *gin.Engine, db *loaders.PostgresClient, providers ProviderSource) {
	ctrl := NewController(db, providers)
	router.POST("/api/messages/send", ctrl.Send)
}
