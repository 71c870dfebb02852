package instance

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zapdesk/zapdesk/internal/whatsapp"
)

// ProviderSource resolves the active gateway adapter.
type ProviderSource interface {
	Active(ctx context.Context) whatsapp.Provider
}

// Controller exposes the vendor instance lifecycle: status, QR pairing,
// restart, logout.
type Controller struct {
	providers ProviderSource
}

func NewController(providers ProviderSource) *Controller {
	return &Controller{providers: providers}
}

// Status returns the provider connection state.
// GET /api/status
func (c *Controller) Status(ctx *gin.Context) {
	status := c.providers.Active(ctx.Request.Context()).CheckConnection(ctx.Request.Context())
	ctx.JSON(http.StatusOK, status)
}

// Qr renders the tagged QR result: image bytes, an "already connected"
// notice, or 404 when the vendor has no code to give.
// GET /api/qr
func (c *Controller) Qr(ctx *gin.Context) {
	result := c.providers.Active(ctx.Request.Context()).GetQrCode(ctx.Request.Context())

	switch result.Kind {
	case whatsapp.QrConnected:
		ctx.JSON(http.StatusOK, gin.H{"status": "connected", "message": result.Message})
	case whatsapp.QrImage:
		ctx.Data(http.StatusOK, result.ContentType, result.Image)
	default:
		ctx.JSON(http.StatusNotFound, gin.H{"error": "QR Code not available"})
	}
}

// Restart asks the vendor to restart the instance.
// GET /api/restart
func (c *Controller) Restart(ctx *gin.Context) {
	if !c.providers.Active(ctx.Request.Context()).Restart(ctx.Request.Context()) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restart instance"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Instance restarting..."})
}

// Logout disconnects the vendor instance.
// GET /api/logout
func (c *Controller) Logout(ctx *gin.Context) {
	if !c.providers.Active(ctx.Request.Context()).Logout(ctx.Request.Context()) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout instance"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Instance disconnected"})
}
