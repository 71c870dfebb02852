package settings

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/loaders"
	"github.com/zapdesk/zapdesk/internal/utils"
	"github.com/zapdesk/zapdesk/internal/whatsapp"
)

// ProviderSelector is the part of the selector the settings endpoint needs to
// push a new webhook URL to the vendor after a config change.
type ProviderSelector interface {
	Active(ctx context.Context) whatsapp.Provider
	Refresh()
}

// Controller serves the opaque JSON settings documents.
type Controller struct {
	db       *loaders.PostgresClient
	selector ProviderSelector
}

func NewController(db *loaders.PostgresClient, selector ProviderSelector) *Controller {
	return &Controller{db: db, selector: selector}
}

// Get returns the stored document, or JSON null when the key has never been
// written.
// GET /api/settings/:key
func (c *Controller) Get(ctx *gin.Context) {
	value, found, err := c.db.GetSetting(ctx.Request.Context(), ctx.Param("key"))
	if err != nil {
		utils.Zlog.Error("Failed to fetch setting", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	if !found {
		ctx.Data(http.StatusOK, "application/json", []byte("null"))
		return
	}
	ctx.Data(http.StatusOK, "application/json", []byte(value))
}

// Save stores the request body verbatim under the key. Saving the provider
// config additionally pushes the webhook URL to the vendor, best-effort.
// POST /api/settings/:key
func (c *Controller) Save(ctx *gin.Context) {
	key := ctx.Param("key")

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil || !json.Valid(body) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if err := c.db.UpsertSetting(ctx.Request.Context(), key, string(body)); err != nil {
		utils.Zlog.Error("Failed to save setting", zap.String("key", key), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	if key == whatsapp.ProviderConfigKey {
		c.syncWebhook(ctx.Request.Context(), body)
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (c *Controller) syncWebhook(ctx context.Context, body []byte) {
	var pc whatsapp.ProviderConfig
	if err := json.Unmarshal(body, &pc); err != nil || pc.WebhookURL == "" {
		return
	}

	// The stored document changed, so the cached adapter is stale.
	c.selector.Refresh()

	utils.Zlog.Info("Auto-syncing webhook URL to provider", zap.String("url", pc.WebhookURL))
	if !c.selector.Active(ctx).UpdateWebhook(ctx, pc.WebhookURL) {
		utils.Zlog.Warn("Webhook auto-sync failed", zap.String("url", pc.WebhookURL))
	}
}
