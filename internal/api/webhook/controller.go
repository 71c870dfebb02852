package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/utils"
)

// Controller handles inbound vendor webhooks.
type Controller struct {
	service *Service
}

func NewController(service *Service) *Controller {
	return &Controller{service: service}
}

// HandleMessage accepts any vendor payload shape and always answers 200.
// POST /api/webhook/message
func (c *Controller) HandleMessage(ctx *gin.Context) {
	var body map[string]any
	if err := ctx.ShouldBindJSON(&body); err != nil {
		// Unknown shapes must not break the vendor's retry logic.
		utils.Zlog.Debug("Unparseable webhook body", zap.Error(err))
		ctx.JSON(http.StatusOK, Ack{Status: "ignored"})
		return
	}

	ack := c.service.HandleInbound(ctx.Request.Context(), body)
	ctx.JSON(http.StatusOK, ack)
}
