package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/service/catalog"
	"github.com/mamadbah2/boutique/internal/service/pos"
	"github.com/mamadbah2/boutique/internal/service/reporting"
	"github.com/mamadbah2/boutique/internal/service/settings"
	"github.com/mamadbah2/boutique/internal/service/stock"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, pos.ErrInvalidLineItem),
		errors.Is(err, pos.ErrEmptyBarcode),
		errors.Is(err, settings.ErrInvalidSettings):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, pos.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrDuplicateBarcode),
		errors.Is(err, catalog.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, pos.ErrEmptyInvoice):
		return http.StatusUnprocessableEntity
	case errors.Is(err, stock.ErrNotifierDisabled),
		errors.Is(err, stock.ErrExportDisabled),
		errors.Is(err, reporting.ErrExportDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": ...}. Internal failures are logged and
// their details are not sent to the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
