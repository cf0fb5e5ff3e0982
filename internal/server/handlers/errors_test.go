package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/mamadbah2/boutique/internal/service/catalog"
	"github.com/mamadbah2/boutique/internal/service/pos"
	"github.com/mamadbah2/boutique/internal/service/reporting"
	"github.com/mamadbah2/boutique/internal/service/settings"
	"github.com/mamadbah2/boutique/internal/service/stock"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: name is required", catalog.ErrInvalidProduct), http.StatusBadRequest},
		{pos.ErrInvalidLineItem, http.StatusBadRequest},
		{pos.ErrEmptyBarcode, http.StatusBadRequest},
		{settings.ErrInvalidSettings, http.StatusBadRequest},
		{fmt.Errorf("%w: p-1", catalog.ErrProductNotFound), http.StatusNotFound},
		{pos.ErrItemNotFound, http.StatusNotFound},
		{catalog.ErrDuplicateBarcode, http.StatusConflict},
		{catalog.ErrInsufficientStock, http.StatusConflict},
		{pos.ErrEmptyInvoice, http.StatusUnprocessableEntity},
		{stock.ErrNotifierDisabled, http.StatusServiceUnavailable},
		{stock.ErrExportDisabled, http.StatusServiceUnavailable},
		{reporting.ErrExportDisabled, http.StatusServiceUnavailable},
		{errors.New("mongo timeout"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
