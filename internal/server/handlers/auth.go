package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/service/auth"
)

// AuthHandler exposes sign-in, sign-out and session refresh.
type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the auth HTTP adapter.
func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("sign-in failed", zap.String("email", req.Email))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Logout invalidates the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.SignOut(BearerToken(c))
	c.Status(http.StatusNoContent)
}

// Refresh extends the presented session.
func (h *AuthHandler) Refresh(c *gin.Context) {
	session, err := h.svc.Refresh(BearerToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
