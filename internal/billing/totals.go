// Package billing derives invoice amounts from line items.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/boutique/internal/domain/models"
)

// TaxPlaces is the precision tax amounts are rounded to.
const TaxPlaces = 2

// ComputeTotals sums the line totals and applies taxRate (a fraction in [0,1]).
// Tax is rounded half-up to two places; the subtotal is left exact.
// Inputs are not validated.
func ComputeTotals(items []models.LineItem, taxRate decimal.Decimal) models.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}

	tax := subtotal.Mul(taxRate).Round(TaxPlaces)

	return models.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
