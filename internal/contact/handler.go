package contact

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tohidahmed666-design/AssetMGMT/internal/uploads"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/security"
)

// ContactNotifier forwards a submission to the developer inbox.
type ContactNotifier interface {
	SendContactMessage(contact *models.Contact, devEmail string)
}

type Handler struct {
	repo     ContactRepository
	notify   ContactNotifier
	images   *uploads.Store
	devEmail string
	log      *zap.Logger
}

func NewHandler(repo ContactRepository, notify ContactNotifier, images *uploads.Store, devEmail string, log *zap.Logger) *Handler {
	return &Handler{
		repo:     repo,
		notify:   notify,
		images:   images,
		devEmail: devEmail,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine, protected *gin.RouterGroup) {
	router.POST("/contact", h.SubmitContact)
	protected.GET("/contact", security.Authorize("admin"), h.ListContacts)
	protected.PATCH("/contact/:id", security.Authorize("admin"), h.UpdateContactStatus)
}

func (h *Handler) SubmitContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please fill required fields."})
		return
	}

	contact := &models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if contact.Name == "" {
		contact.Name = "Anonymous"
	}

	if req.Screenshot != nil && *req.Screenshot != "" {
		path, err := h.images.SaveBase64(*req.Screenshot)
		if err != nil {
			h.log.Warn("Failed to store contact screenshot", zap.Error(err))
		} else {
			contact.ScreenshotURL = &path
		}
	}

	stored, err := h.repo.PersistContact(contact)
	if err != nil {
		h.log.Error("Failed to store contact message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error sending message."})
		return
	}

	go h.notify.SendContactMessage(stored, h.devEmail)

	c.JSON(http.StatusOK, gin.H{"msg": "Message sent successfully."})
}

func (h *Handler) ListContacts(c *gin.Context) {
	contacts, err := h.repo.GetContacts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts"})
		return
	}

	c.JSON(http.StatusOK, contacts)
}

func (h *Handler) UpdateContactStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=new in_progress resolved"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if err := h.repo.UpdateStatus(id, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact updated successfully"})
}
