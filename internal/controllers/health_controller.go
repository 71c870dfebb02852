package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/loaders"
	"github.com/zapdesk/zapdesk/internal/utils"
)

type HealthController struct {
	db *loaders.PostgresClient
}

func NewHealthController(db *loaders.PostgresClient) *HealthController {
	return &HealthController{db: db}
}

// HealthCheck reports application and database health.
// GET /health
func (h *HealthController) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()
	if err := pool.Ping(ctx); err != nil {
		utils.Zlog.Error("Database health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"database":  "down",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  "up",
		"timestamp": time.Now().UTC(),
	})
}
