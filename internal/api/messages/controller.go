package messages

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/loaders"
	"github.com/zapdesk/zapdesk/internal/utils"
	"github.com/zapdesk/zapdesk/internal/whatsapp"
)

// ProviderSource resolves the active gateway adapter.
type ProviderSource interface {
	Active(ctx context.Context) whatsapp.Provider
}

// Controller handles agent-initiated outbound sends.
type Controller struct {
	db        *loaders.PostgresClient
	providers ProviderSource
}

func NewController(db *loaders.PostgresClient, providers ProviderSource) *Controller {
	return &Controller{db: db, providers: providers}
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Send delivers a message via the active provider and records it in the
// transcript, creating the conversation when the number is new.
// POST /api/messages/send
func (c *Controller) Send(ctx *gin.Context) {
	var req sendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Phone == "" || req.Message == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Phone and message are required"})
		return
	}

	phone := utils.CanonicalPhone(req.Phone)
	provider := c.providers.Active(ctx.Request.Context())

	if _, err := provider.SendMessage(ctx.Request.Context(), phone, req.Message); err != nil {
		utils.Zlog.Error("Failed to send message", zap.String("phone", phone), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send message",
			"details": err.Error(),
		})
		return
	}

	conv, err := c.db.UpsertConversation(ctx.Request.Context(), phone, phone)
	if err != nil {
		utils.Zlog.Error("Failed to upsert conversation", zap.String("phone", phone), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message", "details": err.Error()})
		return
	}

	saved, err := c.db.InsertMessage(ctx.Request.Context(), conv.ID, req.Message, true)
	if err != nil {
		utils.Zlog.Error("Failed to persist outbound message", zap.String("phone", phone), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message", "details": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": saved})
}
