package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/billing"
	"github.com/mamadbah2/boutique/internal/domain/models"
	"github.com/mamadbah2/boutique/internal/service/pos"
)

// TaxRateSource supplies the default rate for ad-hoc totals.
type TaxRateSource interface {
	TaxRate() decimal.Decimal
}

// InvoiceHandler serves the register screen of every terminal.
type InvoiceHandler struct {
	svc    *pos.Service
	tax    TaxRateSource
	logger *zap.Logger
}

// NewInvoiceHandler constructs the register HTTP adapter.
func NewInvoiceHandler(svc *pos.Service, tax TaxRateSource, logger *zap.Logger) *InvoiceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceHandler{svc: svc, tax: tax, logger: logger}
}

type scanRequest struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity" binding:"gte=0"`
}

type totalsLine struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity" binding:"gt=0"`
	Discount  decimal.Decimal `json:"discount"`
}

type totalsRequest struct {
	Items   []totalsLine     `json:"items" binding:"dive"`
	TaxRate *decimal.Decimal `json:"tax_rate"`
}

func (r totalsRequest) validate() error {
	if r.TaxRate != nil && (r.TaxRate.IsNegative() || r.TaxRate.GreaterThan(decimal.NewFromInt(1))) {
		return fmt.Errorf("tax_rate %s outside [0, 1]", r.TaxRate)
	}
	for i, l := range r.Items {
		if l.UnitPrice.IsNegative() || l.Discount.IsNegative() {
			return fmt.Errorf("item %d: negative unit_price or discount", i)
		}
	}
	return nil
}

type totalsResponse struct {
	models.Totals
	TaxRate decimal.Decimal `json:"tax_rate"`
}

// Current returns the terminal's open invoice.
func (h *InvoiceHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Current(c.Param("terminal")))
}

// New discards the open invoice and starts a new one.
func (h *InvoiceHandler) New(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.NewInvoice(c.Param("terminal")))
}

// Scan adds a catalog product by barcode.
func (h *InvoiceHandler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	inv, err := h.svc.AddByBarcode(c.Request.Context(), c.Param("terminal"), req.Barcode, req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// AddItem adds a custom line.
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	var in pos.LineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	inv, err := h.svc.AddItem(c.Param("terminal"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// RemoveItem drops a line from the open invoice.
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	inv, err := h.svc.RemoveItem(c.Param("terminal"), c.Param("itemID"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Save archives the open invoice.
func (h *InvoiceHandler) Save(c *gin.Context) {
	inv, err := h.svc.Save(c.Request.Context(), c.Param("terminal"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// Print records a print request for the open invoice.
func (h *InvoiceHandler) Print(c *gin.Context) {
	inv, err := h.svc.Print(c.Request.Context(), c.Param("terminal"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Totals computes subtotal, tax and total for arbitrary lines without
// touching any register. tax_rate defaults to the configured VAT rate.
func (h *InvoiceHandler) Totals(c *gin.Context) {
	var req totalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	if err := req.validate(); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	rate := h.tax.TaxRate()
	if req.TaxRate != nil {
		rate = *req.TaxRate
	}

	items := make([]models.LineItem, 0, len(req.Items))
	for _, l := range req.Items {
		items = append(items, models.NewLineItem("", "", l.UnitPrice, l.Quantity, l.Discount))
	}

	c.JSON(http.StatusOK, totalsResponse{Totals: billing.ComputeTotals(items, rate), TaxRate: rate})
}
