package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zapdesk/zapdesk/internal/controllers"
	"github.com/zapdesk/zapdesk/internal/loaders"
)

// SetupHealthRoutes configures health check endpoints
func SetupHealthRoutes(router *gin.Engine, db *loaders.PostgresClient) {
	healthController := controllers.NewHealthController(db)

	// Root endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Health check endpoint
	router.GET("/health", healthController.HealthCheck)
}
