package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one product entry on an open invoice.
type LineItem struct {
	ID        string          `json:"id"`
	Barcode   string          `json:"barcode,omitempty"`
	ProductID string          `json:"product_id,omitempty"`
	Product   string          `json:"product"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// NewLineItem builds a line item and derives its LineTotal as
// unitPrice × quantity − discount. Inputs are not validated.
func NewLineItem(id, product string, unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) LineItem {
	item := LineItem{
		ID:        id,
		Product:   product,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Discount:  discount,
	}
	item.Recalculate()
	return item
}

// Gross returns unitPrice × quantity before discount.
func (li LineItem) Gross() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Recalculate refreshes LineTotal after Quantity, UnitPrice or Discount changed.
func (li *LineItem) Recalculate() {
	li.LineTotal = li.Gross().Sub(li.Discount)
}

// Margin returns the profit contributed by the line: lineTotal − unitCost × quantity.
func (li LineItem) Margin() decimal.Decimal {
	return li.LineTotal.Sub(li.UnitCost.Mul(decimal.NewFromInt(int64(li.Quantity))))
}

// Totals holds the derived amounts of an invoice.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// InvoiceStatus tracks where a register invoice is in its lifecycle.
type InvoiceStatus string

const (
	InvoiceStatusOpen  InvoiceStatus = "open"
	InvoiceStatusSaved InvoiceStatus = "saved"
)

// Invoice is a register invoice, open or archived.
type Invoice struct {
	ID        string          `json:"id"`
	Number    string          `json:"number,omitempty"`
	Terminal  string          `json:"terminal"`
	Status    InvoiceStatus   `json:"status"`
	Items     []LineItem      `json:"items"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Totals    Totals          `json:"totals"`
	OpenedAt  time.Time       `json:"opened_at"`
	SavedAt   *time.Time      `json:"saved_at,omitempty"`
	PrintedAt *time.Time      `json:"printed_at,omitempty"`
}

// Profit sums the margin of every line.
func (i *Invoice) Profit() decimal.Decimal {
	profit := decimal.Zero
	for _, item := range i.Items {
		profit = profit.Add(item.Margin())
	}
	return profit
}

// Units counts the pieces sold on the invoice.
func (i *Invoice) Units() int {
	var units int
	for _, item := range i.Items {
		units += item.Quantity
	}
	return units
}
