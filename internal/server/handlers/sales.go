package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/service/sales"
)

// SalesHandler exposes the sales store over HTTP.
type SalesHandler struct {
	svc    *sales.Service
	logger *zap.Logger
}

// NewSalesHandler constructs the sales HTTP adapter.
func NewSalesHandler(svc *sales.Service, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{svc: svc, logger: logger}
}

// List returns all sales, newest first.
func (h *SalesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.List())
}

type recordSaleRequest struct {
	Flavor         string         `json:"flavor" binding:"required"`
	Quantity       int            `json:"quantity" binding:"required"`
	BagSize        models.BagSize `json:"bag_size" binding:"required"`
	TotalAmountRaw float64        `json:"total_amount_raw" binding:"required"`
}

// Create records a sale and deducts the consumed raw material.
func (h *SalesHandler) Create(c *gin.Context) {
	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sale := models.Sale{
		Flavor:         req.Flavor,
		Quantity:       req.Quantity,
		BagSize:        req.BagSize,
		TotalAmountRaw: req.TotalAmountRaw,
	}

	if err := h.svc.Record(c.Request.Context(), actorFrom(c), sale); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
