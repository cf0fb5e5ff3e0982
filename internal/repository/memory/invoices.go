package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mamadbah2/boutique/internal/domain/models"
)

// InvoiceStore archives invoices and daily reports for the lifetime of the process.
type InvoiceStore struct {
	mu       sync.RWMutex
	invoices []models.Invoice
	reports  []models.DailyReport
}

// NewInvoiceStore returns an empty archive.
func NewInvoiceStore() *InvoiceStore {
	return &InvoiceStore{}
}

// SaveInvoice appends an invoice to the archive.
func (s *InvoiceStore) SaveInvoice(_ context.Context, invoice models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice.Items = append([]models.LineItem(nil), invoice.Items...)
	s.invoices = append(s.invoices, invoice)
	return nil
}

// ListInvoices returns invoices saved in [from, to), oldest first.
func (s *InvoiceStore) ListInvoices(_ context.Context, from, to time.Time) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Invoice
	for _, inv := range s.invoices {
		if inv.SavedAt == nil {
			continue
		}
		if inv.SavedAt.Before(from) || !inv.SavedAt.Before(to) {
			continue
		}
		out = append(out, inv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.Before(*out[j].SavedAt) })
	return out, nil
}

// CountInvoicesInYear counts archived invoices saved during year.
func (s *InvoiceStore) CountInvoicesInYear(_ context.Context, year int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, inv := range s.invoices {
		if inv.SavedAt != nil && inv.SavedAt.Year() == year {
			n++
		}
	}
	return n, nil
}

// SaveDailyReport keeps the snapshot in memory.
func (s *InvoiceStore) SaveDailyReport(_ context.Context, report models.DailyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, report)
	return nil
}

// Reports returns a copy of the stored snapshots.
func (s *InvoiceStore) Reports() []models.DailyReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.DailyReport(nil), s.reports...)
}
