package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/service/reporting"
)

// ReportsHandler exposes derived aggregates and report exports over HTTP.
type ReportsHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewReportsHandler constructs the reports HTTP adapter.
func NewReportsHandler(svc *reporting.Service, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{svc: svc, logger: logger}
}

// Get returns the current report snapshot as JSON.
func (h *ReportsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Build())
}

// Document returns the report as a paginated plain-text document.
func (h *ReportsHandler) Document(c *gin.Context) {
	doc := reporting.RenderDocument(h.svc.Build())
	c.Data(http.StatusOK, "text/plain; charset=utf-8", doc)
}

// Export persists the report and pushes it to the configured spreadsheet.
func (h *ReportsHandler) Export(c *gin.Context) {
	report, err := h.svc.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
