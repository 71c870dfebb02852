package instance

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the instance lifecycle endpoints.
func RegisterRoutes(router *gin.Engine, providers ProviderSource) {
	ctrl := NewController(providers)

	router.GET("/api/status", ctrl.Status)
	router.GET("/api/qr", ctrl.Qr)
	router.GET("/api/restart", ctrl.Restart)
	router.GET("/api/logout", ctrl.Logout)
}
