package contacts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/loaders"
	"github.com/zapdesk/zapdesk/internal/utils"
)

// Controller handles the contact CRUD and sync endpoints.
type Controller struct {
	db   *loaders.PostgresClient
	sync *SyncService
}

func NewController(db *loaders.PostgresClient, sync *SyncService) *Controller {
	return &Controller{db: db, sync: sync}
}

// List returns all contacts ordered by name.
// GET /api/contacts
func (c *Controller) List(ctx *gin.Context) {
	contacts, err := c.db.ListContacts(ctx.Request.Context())
	if err != nil {
		utils.Zlog.Error("Failed to list contacts", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts"})
		return
	}
	ctx.JSON(http.StatusOK, contacts)
}

type createContactRequest struct {
	Name  string   `json:"name"`
	Phone string   `json:"phone"`
	Email *string  `json:"email"`
	Tags  []string `json:"tags"`
}

// Create registers a contact manually.
// POST /api/contacts
func (c *Controller) Create(ctx *gin.Context) {
	var req createContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Phone == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Phone is required"})
		return
	}

	name := req.Name
	if name == "" {
		name = req.Phone
	}
	record := &loaders.ContactRecord{
		Phone: req.Phone,
		Name:  name,
		Email: req.Email,
		Tags:  req.Tags,
	}
	if err := c.db.CreateContact(ctx.Request.Context(), record); err != nil {
		if errors.Is(err, loaders.ErrDuplicatePhone) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Este número já está cadastrado."})
			return
		}
		utils.Zlog.Error("Failed to create contact", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}
	ctx.JSON(http.StatusOK, record)
}

// Delete removes a contact by phone.
// DELETE /api/contacts/:phone
func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.db.DeleteContact(ctx.Request.Context(), ctx.Param("phone")); err != nil {
		utils.Zlog.Error("Failed to delete contact", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// Sync pulls the vendor contact list into the local store.
// POST /api/contacts/sync
func (c *Controller) Sync(ctx *gin.Context) {
	count, err := c.sync.Sync(ctx.Request.Context())
	if err != nil {
		utils.Zlog.Error("Contact sync failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync contacts"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "count": count, "message": SyncResultMessage(count)})
}
