package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tohidahmed666-design/AssetMGMT/internal/ratelimit"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/apperrors"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

type Handler struct {
	service     *Service
	rateLimiter *ratelimit.RateLimiter
	log         *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: ratelimit.NewRateLimiter(10, 5*time.Minute),
		log:         log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/request-otp", h.RequestOtp)
		auth.POST("/reset-password", h.ResetPassword)
		auth.POST("/logout", h.Logout)
	}
}

func (h *Handler) Login(c *gin.Context) {
	clientIP := clientIP(c)
	if !h.rateLimiter.IsAllowed(clientIP) {
		c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many login attempts. Try later."})
		return
	}

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password required"})
		return
	}

	token, user, err := h.service.Login(req, clientIP, c.GetHeader("User-Agent"))
	if err != nil {
		h.respondError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
			"verified": user.Verified,
		},
		"message": "Login successful",
	})
}

func (h *Handler) RequestOtp(c *gin.Context) {
	var req models.RequestOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email required"})
		return
	}

	if err := h.service.RequestOtp(req.Email); err != nil {
		h.respondError(c, err, "Server error sending OTP")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your email"})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email, OTP, and new password required"})
		return
	}

	if err := h.service.ResetPassword(req); err != nil {
		h.respondError(c, err, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

func (h *Handler) Logout(c *gin.Context) {
	// Tokens are stateless; the client just drops it.
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) respondError(c *gin.Context, err error, internalMsg string) {
	var validation *apperrors.ValidationError
	var conflict *apperrors.ConflictError
	var notFound *apperrors.NotFoundError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"message": validation.Message})
	case errors.As(err, &conflict):
		c.JSON(http.StatusTooManyRequests, gin.H{"message": conflict.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Message})
	default:
		h.log.Error(internalMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalMsg})
	}
}

func clientIP(c *gin.Context) string {
	ip := c.GetHeader("X-Forwarded-For")
	if ip == "" {
		ip = c.GetHeader("X-Real-IP")
	}
	if ip == "" {
		ip = c.ClientIP()
	}

	if strings.Contains(ip, ",") {
		ip = strings.Split(ip, ",")[0]
	}

	return strings.TrimSpace(ip)
}
