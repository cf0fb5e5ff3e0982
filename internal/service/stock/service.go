package stock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/domain/models"
	"github.com/mamadbah2/boutique/internal/repository/sheets"
	"github.com/mamadbah2/boutique/internal/stockalert"
)

const (
	lowStockExportRange = "LowStock!A:H"
	dateLayout          = "2006-01-02"
)

var (
	// ErrNotifierDisabled indicates reorder requests cannot be sent.
	ErrNotifierDisabled = errors.New("supplier notifications are not configured")
	// ErrExportDisabled indicates no spreadsheet export is configured.
	ErrExportDisabled = errors.New("spreadsheet export is not configured")
)

// Catalog is the subset of the catalog service the stock screen reads.
type Catalog interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
}

// Notifier delivers a text message to a contact.
type Notifier interface {
	Notify(ctx context.Context, to, message string) error
}

// Service exposes the stock screen operations.
type Service struct {
	catalog    Catalog
	notifier   Notifier
	exporter   sheets.Exporter
	supplierID string
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the stock service. notifier and exporter may be nil.
func NewService(catalog Catalog, notifier Notifier, exporter sheets.Exporter, supplierID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:    catalog,
		notifier:   notifier,
		exporter:   exporter,
		supplierID: supplierID,
		logger:     logger,
		now:        time.Now,
	}
}

// LowStock lists products that are critical, warning, or at or below their
// reorder level, most urgent first, with severity counts over the list.
func (s *Service) LowStock(ctx context.Context) (models.LowStockReport, error) {
	products, err := s.catalog.List(ctx, models.ProductFilter{})
	if err != nil {
		return models.LowStockReport{}, err
	}

	report := models.LowStockReport{Items: []models.LowStockItem{}}
	var records []models.StockRecord
	for _, p := range products {
		record := p.StockRecord()
		if !stockalert.NeedsRestock(record) {
			continue
		}
		report.Items = append(report.Items, models.LowStockItem{Product: p, Severity: stockalert.Classify(record)})
		records = append(records, record)
	}

	sortByUrgency(report.Items)
	report.Summary = stockalert.Summarize(records)
	return report, nil
}

// OrderMore sends a reorder request for the product to the supplier contact.
// The requested quantity tops stock back up to twice the reorder level.
func (s *Service) OrderMore(ctx context.Context, productID string) (models.ReorderRequest, error) {
	if s.notifier == nil || s.supplierID == "" {
		return models.ReorderRequest{}, ErrNotifierDisabled
	}

	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return models.ReorderRequest{}, err
	}

	req := models.ReorderRequest{
		ProductID: p.ID,
		Barcode:   p.Barcode,
		Name:      p.Name,
		Size:      p.Size,
		Color:     p.Color,
		OnHand:    p.Quantity,
		Requested: reorderQuantity(p),
	}

	message := fmt.Sprintf("Reorder request: %d x %s (size %s, %s), barcode %s. On hand: %d.",
		req.Requested, req.Name, req.Size, req.Color, req.Barcode, req.OnHand)
	if err := s.notifier.Notify(ctx, s.supplierID, message); err != nil {
		return models.ReorderRequest{}, fmt.Errorf("send reorder request for %s: %w", p.Name, err)
	}

	s.logger.Info("order request sent", zap.String("product", p.Name), zap.Int("requested", req.Requested))
	return req, nil
}

// ExportLowStock appends the current low-stock list to the spreadsheet and
// returns the number of rows written.
func (s *Service) ExportLowStock(ctx context.Context) (int, error) {
	if s.exporter == nil {
		return 0, ErrExportDisabled
	}

	report, err := s.LowStock(ctx)
	if err != nil {
		return 0, err
	}

	today := s.now().Format(dateLayout)
	rows := make([][]interface{}, 0, len(report.Items))
	for _, item := range report.Items {
		p := item.Product
		rows = append(rows, []interface{}{today, string(item.Severity), sheets.Text(p.Barcode), sheets.Text(p.Name), sheets.Text(p.Size), sheets.Text(p.Color), p.Quantity, p.ReorderLevel})
	}

	if err := s.exporter.AppendRows(ctx, lowStockExportRange, rows); err != nil {
		return 0, fmt.Errorf("export low stock: %w", err)
	}
	return len(rows), nil
}

// Digest formats the low-stock list as a single chat message.
func (s *Service) Digest(ctx context.Context) (string, error) {
	report, err := s.LowStock(ctx)
	if err != nil {
		return "", err
	}

	if len(report.Items) == 0 {
		return "Stock check: all products are above their reorder levels.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stock check: %d critical (<=%d units), %d need restocking soon (<=%d units).",
		report.Summary.CriticalCount, stockalert.CriticalMax, report.Summary.WarningCount, stockalert.WarningMax)
	for _, item := range report.Items {
		fmt.Fprintf(&b, "\n- [%s] %s %s/%s: %d left (reorder at %d)",
			item.Severity, item.Product.Name, item.Product.Size, item.Product.Color, item.Product.Quantity, item.Product.ReorderLevel)
	}
	return b.String(), nil
}

func reorderQuantity(p models.Product) int {
	target := 2 * p.ReorderLevel
	if target < stockalert.WarningMax+1 {
		target = stockalert.WarningMax + 1
	}
	if n := target - p.Quantity; n > 0 {
		return n
	}
	return 1
}

func sortByUrgency(items []models.LowStockItem) {
	rank := map[models.Severity]int{models.SeverityCritical: 0, models.SeverityWarning: 1, models.SeverityNormal: 2}
	sort.SliceStable(items, func(i, j int) bool { return rank[items[i].Severity] < rank[items[j].Severity] })
}
