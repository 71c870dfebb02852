package conversations

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/loaders"
	"github.com/zapdesk/zapdesk/internal/utils"
)

// Controller serves the dashboard conversation views.
type Controller struct {
	db *loaders.PostgresClient
}

func NewController(db *loaders.PostgresClient) *Controller {
	return &Controller{db: db}
}

// List returns all conversations with their latest message, most recently
// updated first.
// GET /api/conversations
func (c *Controller) List(ctx *gin.Context) {
	conversations, err := c.db.ListConversations(ctx.Request.Context())
	if err != nil {
		utils.Zlog.Error("Failed to list conversations", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}
	ctx.JSON(http.StatusOK, conversations)
}

// Messages returns the full transcript for a phone in chronological order.
// GET /api/conversations/:phone/messages
func (c *Controller) Messages(ctx *gin.Context) {
	phone := ctx.Param("phone")

	conv, err := c.db.GetConversationByPhone(ctx.Request.Context(), phone)
	if err != nil {
		utils.Zlog.Error("Failed to fetch conversation", zap.String("phone", phone), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	if conv == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	messages, err := c.db.MessagesByConversation(ctx.Request.Context(), conv.ID)
	if err != nil {
		utils.Zlog.Error("Failed to fetch messages", zap.String("phone", phone), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	ctx.JSON(http.StatusOK, messages)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus flips a conversation between bot and human control. This is
// the only transition: the pipeline never changes status on its own.
// PATCH /api/conversations/:phone/status
func (c *Controller) UpdateStatus(ctx *gin.Context) {
	phone := ctx.Param("phone")

	var req statusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Status != "active" && req.Status != "human" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status must be 'active' or 'human'"})
		return
	}

	conv, err := c.db.UpdateConversationStatus(ctx.Request.Context(), phone, req.Status)
	if err != nil {
		utils.Zlog.Error("Failed to update conversation status", zap.String("phone", phone), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	if conv == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	utils.Zlog.Info("Conversation status updated",
		zap.String("phone", phone),
		zap.String("status", req.Status))
	ctx.JSON(http.StatusOK, conv)
}
