package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severity is the low-stock urgency of a product.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityNormal   Severity = "normal"
)

// StockRecord is the read-only view of a product's on-hand quantity.
type StockRecord struct {
	ID             string `json:"id"`
	QuantityOnHand int    `json:"quantity_on_hand"`
	ReorderLevel   int    `json:"reorder_level"`
}

// StockSummary aggregates severities over a set of records.
type StockSummary struct {
	CriticalCount int `json:"critical_count"`
	WarningCount  int `json:"warning_count"`
}

// Product is a catalog entry with its current stock.
type Product struct {
	ID           string          `json:"id"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Size         string          `json:"size"`
	Color        string          `json:"color"`
	Type         string          `json:"type"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Quantity     int             `json:"quantity"`
	ReorderLevel int             `json:"reorder_level"`
	DateAdded    time.Time       `json:"date_added"`
}

// StockRecord projects the product onto the fields the alert classifier reads.
func (p Product) StockRecord() StockRecord {
	return StockRecord{ID: p.ID, QuantityOnHand: p.Quantity, ReorderLevel: p.ReorderLevel}
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Query string
	Color string
}

// LowStockItem is a product flagged on the stock screen.
type LowStockItem struct {
	Product  Product  `json:"product"`
	Severity Severity `json:"severity"`
}

// LowStockReport is the stock screen payload.
type LowStockReport struct {
	Items   []LowStockItem `json:"items"`
	Summary StockSummary   `json:"summary"`
}
