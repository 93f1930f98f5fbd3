package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/service/inventory"
)

// InventoryHandler exposes the inventory store over HTTP.
type InventoryHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewInventoryHandler constructs the inventory HTTP adapter.
func NewInventoryHandler(svc *inventory.Service, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// List returns the current snapshot, optionally filtered by category or
// restricted to low-stock items.
func (h *InventoryHandler) List(c *gin.Context) {
	if c.Query("low_stock") == "true" {
		c.JSON(http.StatusOK, h.svc.LowStock())
		return
	}
	if category := c.Query("category"); category != "" {
		c.JSON(http.StatusOK, h.svc.ByCategory(models.Category(category)))
		return
	}
	c.JSON(http.StatusOK, h.svc.List())
}

type createItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	Category     models.Category `json:"category" binding:"required"`
	Quantity     float64         `json:"quantity"`
	Unit         string          `json:"unit" binding:"required"`
	ReorderLevel float64         `json:"reorder_level"`
}

// Create validates and records a new item.
func (h *InventoryHandler) Create(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item := models.InventoryItem{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
	}

	if err := h.svc.Create(c.Request.Context(), actorFrom(c), item); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// Update applies a partial item update.
func (h *InventoryHandler) Update(c *gin.Context) {
	var patch models.InventoryItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.Update(c.Request.Context(), actorFrom(c), c.Param("id"), patch); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// Delete removes an item.
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
