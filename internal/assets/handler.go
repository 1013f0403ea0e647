package assets

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tohidahmed666-design/AssetMGMT/pkg/apperrors"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/security"
)

type Handler struct {
	service *Service
	tokens  *security.TokenManager
	log     *zap.Logger
}

func NewHandler(service *Service, tokens *security.TokenManager, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("/assets")
	protectedRoutes.Use(h.tokens.JWTMiddleware())
	{
		protectedRoutes.GET("", h.ListAssets)
		protectedRoutes.POST("", h.CreateAsset)
		protectedRoutes.GET("/deleted", security.Authorize("admin"), h.ListDeletedAssets)
		protectedRoutes.GET("/issued", h.ListIssued)
		protectedRoutes.GET("/received", h.ListReceived)
		protectedRoutes.GET("/check/:assetNumber", h.CheckAsset)
		protectedRoutes.POST("/issue", h.IssueAsset)
		protectedRoutes.POST("/receive", h.ReceiveAsset)
		protectedRoutes.POST("/recover/:assetNumber", security.Authorize("admin"), h.RecoverAsset)
		protectedRoutes.GET("/:assetNumber", h.GetAsset)
		protectedRoutes.PUT("/:assetNumber", h.UpdateAsset)
		protectedRoutes.DELETE("/:assetNumber", security.Authorize("admin"), h.DeleteAsset)
	}
}

func (h *Handler) ListAssets(c *gin.Context) {
	assets, err := h.service.List()
	if err != nil {
		h.respondError(c, err, "Failed to fetch assets")
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *Handler) ListDeletedAssets(c *gin.Context) {
	assets, err := h.service.ListDeleted()
	if err != nil {
		h.respondError(c, err, "Failed to fetch assets")
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *Handler) ListIssued(c *gin.Context) {
	issued, err := h.service.ListIssued()
	if err != nil {
		h.respondError(c, err, "Failed to fetch issued assets")
		return
	}

	c.JSON(http.StatusOK, issued)
}

func (h *Handler) ListReceived(c *gin.Context) {
	received, err := h.service.ListReceived()
	if err != nil {
		h.respondError(c, err, "Failed to fetch received assets")
		return
	}

	c.JSON(http.StatusOK, received)
}

func (h *Handler) CheckAsset(c *gin.Context) {
	exists, err := h.service.Exists(c.Param("assetNumber"))
	if err != nil {
		h.respondError(c, err, "Error checking asset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (h *Handler) GetAsset(c *gin.Context) {
	asset, err := h.service.Get(c.Param("assetNumber"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch asset")
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *Handler) CreateAsset(c *gin.Context) {
	var req models.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Asset Number and Category are required"})
		return
	}

	userID := userIDFromContext(c)
	createdBy := emailFromContext(c)

	asset, err := h.service.Create(req, createdBy, userID)
	if err != nil {
		h.respondError(c, err, "Failed to add asset")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Asset added successfully", "asset": asset})
}

func (h *Handler) UpdateAsset(c *gin.Context) {
	var req models.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	asset, err := h.service.Update(c.Param("assetNumber"), req, userIDFromContext(c))
	if err != nil {
		h.respondError(c, err, "Failed to update asset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Asset updated successfully", "asset": asset})
}

func (h *Handler) IssueAsset(c *gin.Context) {
	var req models.IssueAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "asset_number, issued_to, and receiver_email are required"})
		return
	}

	// Issuer defaults to the authenticated user.
	if req.IssuerEmail == nil {
		req.IssuerEmail = emailFromContext(c)
	}
	if req.IssuerName == nil {
		req.IssuerName = emailFromContext(c)
	}

	_, issued, err := h.service.Issue(req, userIDFromContext(c))
	if err != nil {
		h.respondError(c, err, "Failed to issue asset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Asset issued successfully", "issued": issued})
}

func (h *Handler) ReceiveAsset(c *gin.Context) {
	var req models.ReceiveAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "asset_number and receiver are required"})
		return
	}

	asset, entry, err := h.service.Receive(req, userIDFromContext(c))
	if err != nil {
		h.respondError(c, err, "Failed to receive asset")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":          "Asset " + req.AssetNumber + " received successfully",
		"asset":        asset,
		"issuedRecord": entry,
	})
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	if err := h.service.Delete(c.Param("assetNumber"), userIDFromContext(c)); err != nil {
		h.respondError(c, err, "Failed to delete asset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Asset deleted successfully"})
}

func (h *Handler) RecoverAsset(c *gin.Context) {
	if err := h.service.Recover(c.Param("assetNumber"), userIDFromContext(c)); err != nil {
		h.respondError(c, err, "Failed to recover asset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Asset recovered successfully"})
}

// respondError maps the error taxonomy onto HTTP statuses. Unexpected
// storage failures are logged server-side and reported generically.
func (h *Handler) respondError(c *gin.Context, err error, internalMsg string) {
	var validation *apperrors.ValidationError
	var conflict *apperrors.ConflictError
	var notFound *apperrors.NotFoundError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.As(err, &conflict):
		resp := gin.H{"error": conflict.Message}
		if conflict.CurrentStatus != "" {
			resp["current_status"] = conflict.CurrentStatus
		}
		c.JSON(http.StatusConflict, resp)
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Message})
	default:
		h.log.Error(internalMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}

func userIDFromContext(c *gin.Context) *int {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int); ok {
			return &id
		}
	}
	return nil
}

func emailFromContext(c *gin.Context) *string {
	if v, ok := c.Get("email"); ok {
		if email, ok := v.(string); ok && email != "" {
			return &email
		}
	}
	return nil
}
