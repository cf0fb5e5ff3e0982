package mongodb

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/boutique/internal/domain/models"
)

func TestInvoiceDocument_RoundTrip(t *testing.T) {
	saved := time.Date(2025, 10, 6, 14, 30, 0, 0, time.UTC)
	item := models.NewLineItem("li-1", "Red Hoodie (L)", decimal.RequireFromString("499.99"), 1, decimal.NewFromInt(50))
	item.UnitCost = decimal.RequireFromString("320.00")
	item.Color = "Red"

	inv := models.Invoice{
		ID:       "inv-1",
		Number:   "INV-2025-0001",
		Terminal: "till-1",
		Items:    []models.LineItem{item},
		TaxRate:  decimal.RequireFromString("0.14"),
		Totals: models.Totals{
			Subtotal: decimal.RequireFromString("449.99"),
			Tax:      decimal.RequireFromString("63.00"),
			Total:    decimal.RequireFromString("512.99"),
		},
		OpenedAt: saved.Add(-time.Minute),
		SavedAt:  &saved,
	}

	doc, err := toInvoiceDocument(inv)
	if err != nil {
		t.Fatalf("toInvoiceDocument() error = %v", err)
	}
	got, err := doc.toModel()
	if err != nil {
		t.Fatalf("toModel() error = %v", err)
	}

	if got.Number != inv.Number || got.Status != models.InvoiceStatusSaved {
		t.Errorf("header mismatch: %+v", got)
	}
	if !got.Totals.Total.Equal(inv.Totals.Total) || !got.TaxRate.Equal(inv.TaxRate) {
		t.Errorf("totals mismatch: got %+v want %+v", got.Totals, inv.Totals)
	}
	if len(got.Items) != 1 || !got.Items[0].LineTotal.Equal(item.LineTotal) || !got.Items[0].UnitCost.Equal(item.UnitCost) {
		t.Errorf("items mismatch: %+v", got.Items)
	}
}

func TestInvoiceDocument_RequiresSavedAt(t *testing.T) {
	if _, err := toInvoiceDocument(models.Invoice{ID: "open"}); !errors.Is(err, errUnsavedInvoice) {
		t.Errorf("error = %v, want errUnsavedInvoice", err)
	}
}

func TestReportDocument(t *testing.T) {
	doc, err := toReportDocument(models.DailyReport{InvoiceCount: 3, Sales: decimal.RequireFromString("1196.97")})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Sales.String() != "1196.97" {
		t.Errorf("Sales = %s, want 1196.97", doc.Sales.String())
	}
}
