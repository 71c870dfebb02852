package webhook

import (
	"github.com/gin-gonic/gin"

	"github.com/zapdesk/zapdesk/internal/utils"
)

// RegisterRoutes registers the vendor webhook endpoint.
func RegisterRoutes(router *gin.Engine, store Store, providers ProviderSource, responder Responder, syncer ContactSyncer) {
	service := NewService(store, providers, responder, syncer)
	ctrl := NewController(service)

	router.POST("/api/webhook/message", ctrl.HandleMessage)

	utils.Zlog.Info("Webhook routes registered")
}
