package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/domain/models"
	"github.com/mamadbah2/boutique/internal/service/settings"
)

// SettingsHandler serves the settings screen.
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

type preferencesRequest struct {
	DarkMode   bool `json:"dark_mode"`
	AutoBackup bool `json:"auto_backup"`
}

// Get returns the current settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Get())
}

// UpdateStore replaces the store details printed on invoices.
func (h *SettingsHandler) UpdateStore(c *gin.Context) {
	var info models.StoreInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	h.respond(c)(h.svc.UpdateStore(info))
}

// UpdateTax replaces the VAT settings.
func (h *SettingsHandler) UpdateTax(c *gin.Context) {
	var tax models.TaxSettings
	if err := c.ShouldBindJSON(&tax); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	h.respond(c)(h.svc.UpdateTax(tax))
}

// UpdatePrinter replaces the receipt output settings.
func (h *SettingsHandler) UpdatePrinter(c *gin.Context) {
	var printer models.PrinterSettings
	if err := c.ShouldBindJSON(&printer); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	h.respond(c)(h.svc.UpdatePrinter(printer))
}

// UpdatePreferences toggles dark mode and automatic backups.
func (h *SettingsHandler) UpdatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.SetPreferences(req.DarkMode, req.AutoBackup))
}

func (h *SettingsHandler) respond(c *gin.Context) func(models.Settings, error) {
	return func(s models.Settings, err error) {
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}
