package appointments

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/loaders"
	"github.com/zapdesk/zapdesk/internal/utils"
)

const listLimit = 100

// Controller serves the agenda endpoints. Appointments are only ever created
// by the webhook pipeline; agents can toggle completion or delete them here.
type Controller struct {
	db *loaders.PostgresClient
}

func NewController(db *loaders.PostgresClient) *Controller {
	return &Controller{db: db}
}

// List returns the latest appointments.
// GET /api/appointments
func (c *Controller) List(ctx *gin.Context) {
	appts, err := c.db.ListAppointments(ctx.Request.Context(), listLimit)
	if err != nil {
		utils.Zlog.Error("Failed to list appointments", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}
	ctx.JSON(http.StatusOK, appts)
}

type updateRequest struct {
	Completed bool `json:"completed"`
}

// Update toggles an appointment's completed flag.
// PUT /api/appointments/:id
func (c *Controller) Update(ctx *gin.Context) {
	var req updateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	appt, err := c.db.SetAppointmentCompleted(ctx.Request.Context(), ctx.Param("id"), req.Completed)
	if err != nil {
		utils.Zlog.Error("Failed to update appointment", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment"})
		return
	}
	if appt == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}
	ctx.JSON(http.StatusOK, appt)
}

// Delete removes an appointment.
// DELETE /api/appointments/:id
func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.db.DeleteAppointment(ctx.Request.Context(), ctx.Param("id")); err != nil {
		utils.Zlog.Error("Failed to delete appointment", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete appointment"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
