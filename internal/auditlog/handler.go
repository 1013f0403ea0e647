package auditlog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tohidahmed666-design/AssetMGMT/pkg/security"
)

type Handler struct {
	r *AuditLogRepository
}

func NewHandler(r *AuditLogRepository) *Handler {
	return &Handler{r: r}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/logs", security.Authorize("admin"), h.GetLogs)
	router.GET("/logs/:resourceType/:id", security.Authorize("admin"), h.GetResourceLog)
}

func (h *Handler) GetLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))

	logs, err := h.r.GetLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *Handler) GetResourceLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	logs, err := h.r.GetResourceLog(id, c.Param("resourceType"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
