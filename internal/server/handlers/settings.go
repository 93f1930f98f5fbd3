package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/service/settings"
)

// SettingsHandler exposes the store settings record over HTTP.
type SettingsHandler struct {
	svc    *settings.Service
	logger *zap.Logger
}

// NewSettingsHandler constructs the settings HTTP adapter.
func NewSettingsHandler(svc *settings.Service, logger *zap.Logger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{svc: svc, logger: logger}
}

// Get returns the settings record.
func (h *SettingsHandler) Get(c *gin.Context) {
	current, ok := h.svc.Get()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "store settings not configured"})
		return
	}
	c.JSON(http.StatusOK, current)
}

// Update applies a partial settings update. Admin only.
func (h *SettingsHandler) Update(c *gin.Context) {
	var patch models.StoreSettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.Update(c.Request.Context(), actorFrom(c), patch); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
