package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/service/stock"
)

// StockHandler serves the stock alerts screen.
type StockHandler struct {
	svc    *stock.Service
	logger *zap.Logger
}

// NewStockHandler constructs the stock HTTP adapter.
func NewStockHandler(svc *stock.Service, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{svc: svc, logger: logger}
}

// Alerts lists low stock products with severity counts.
func (h *StockHandler) Alerts(c *gin.Context) {
	report, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Order sends a reorder request for the product to the supplier.
func (h *StockHandler) Order(c *gin.Context) {
	req, err := h.svc.OrderMore(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, req)
}

// Export appends the low stock list to the spreadsheet.
func (h *StockHandler) Export(c *gin.Context) {
	n, err := h.svc.ExportLowStock(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": n})
}
