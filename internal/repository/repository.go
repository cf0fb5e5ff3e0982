// Package repository declares the storage ports the services depend on.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mamadbah2/boutique/internal/domain/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNegativeStock is returned when an adjustment would drop stock below zero.
	ErrNegativeStock = errors.New("stock cannot go below zero")
)

// ProductRepository stores the catalog and its stock levels.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (models.Product, error)
	Insert(ctx context.Context, product models.Product) error
	Update(ctx context.Context, product models.Product) error
	Delete(ctx context.Context, id string) error
	AdjustQuantity(ctx context.Context, id string, delta int) (models.Product, error)
}

// InvoiceRepository archives saved invoices.
type InvoiceRepository interface {
	SaveInvoice(ctx context.Context, invoice models.Invoice) error
	// ListInvoices returns invoices saved in [from, to), oldest first.
	ListInvoices(ctx context.Context, from, to time.Time) ([]models.Invoice, error)
	CountInvoicesInYear(ctx context.Context, year int) (int64, error)
}

// ReportRepository stores end-of-day snapshots.
type ReportRepository interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}
