package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/service/profiles"
)

// ProfilesHandler exposes account management over HTTP.
type ProfilesHandler struct {
	svc    *profiles.Service
	logger *zap.Logger
}

// NewProfilesHandler constructs the profiles HTTP adapter.
func NewProfilesHandler(svc *profiles.Service, logger *zap.Logger) *ProfilesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfilesHandler{svc: svc, logger: logger}
}

// List returns every profile, admins first.
func (h *ProfilesHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createProfileRequest struct {
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
}

// Create registers a new account. Admin only.
func (h *ProfilesHandler) Create(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.svc.Create(c.Request.Context(), actorFrom(c), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// Update applies a partial profile update.
func (h *ProfilesHandler) Update(c *gin.Context) {
	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.Update(c.Request.Context(), actorFrom(c), c.Param("id"), patch); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete removes an account. Admin only.
func (h *ProfilesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type changePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ChangePassword replaces an account's credential.
func (h *ProfilesHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), actorFrom(c), c.Param("id"), req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
