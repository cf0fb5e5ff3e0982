package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/billing"
	"github.com/mamadbah2/boutique/internal/domain/models"
	"github.com/mamadbah2/boutique/internal/repository"
)

var (
	// ErrEmptyBarcode indicates a scan without a barcode.
	ErrEmptyBarcode = errors.New("barcode must not be empty")
	// ErrEmptyInvoice indicates saving or printing an invoice with no items.
	ErrEmptyInvoice = errors.New("invoice has no items")
	// ErrItemNotFound indicates the line item is not on the open invoice.
	ErrItemNotFound = errors.New("line item not found")
	// ErrInvalidLineItem wraps line item validation failures.
	ErrInvalidLineItem = errors.New("invalid line item")
)

// Catalog is the subset of the catalog service the register needs.
type Catalog interface {
	GetByBarcode(ctx context.Context, barcode string) (models.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (models.Product, error)
}

// Settings supplies the live tax rate and printer configuration.
type Settings interface {
	TaxRate() decimal.Decimal
	Printer() models.PrinterSettings
}

// LineInput describes a custom line typed in at the till.
type LineInput struct {
	Product   string          `json:"product" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity" binding:"required"`
	Discount  decimal.Decimal `json:"discount"`
}

// Service runs the open invoice of every register.
type Service struct {
	catalog  Catalog
	invoices repository.InvoiceRepository
	settings Settings
	sessions *SessionManager
	saveMu   sync.Mutex
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a register service.
func NewService(catalog Catalog, invoices repository.InvoiceRepository, settings Settings, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:  catalog,
		invoices: invoices,
		settings: settings,
		sessions: NewSessionManager(uuid.NewString, time.Now),
		logger:   logger,
		now:      time.Now,
	}
}

// Current returns the open invoice of terminal with its totals.
func (s *Service) Current(terminal string) models.Invoice {
	inv, _ := s.sessions.Snapshot(terminal)
	return s.withTotals(inv)
}

// AddByBarcode looks the barcode up in the catalog and adds quantity pieces.
// Scanning a product already on the invoice without a discount bumps its quantity.
func (s *Service) AddByBarcode(ctx context.Context, terminal, barcode string, quantity int) (models.Invoice, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return models.Invoice{}, ErrEmptyBarcode
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return models.Invoice{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidLineItem)
	}

	product, err := s.catalog.GetByBarcode(ctx, barcode)
	if err != nil {
		return models.Invoice{}, err
	}

	inv, err := s.sessions.Update(terminal, func(inv *models.Invoice) error {
		for i := range inv.Items {
			item := &inv.Items[i]
			if item.Barcode == barcode && item.Discount.IsZero() {
				item.Quantity += quantity
				item.Recalculate()
				return nil
			}
		}

		item := models.NewLineItem(uuid.NewString(), displayName(product), product.Price, quantity, decimal.Zero)
		item.Barcode = product.Barcode
		item.ProductID = product.ID
		item.UnitCost = product.Cost
		item.Size = product.Size
		item.Color = product.Color
		inv.Items = append(inv.Items, item)
		return nil
	})
	if err != nil {
		return models.Invoice{}, err
	}

	s.logger.Debug("product added to invoice", zap.String("terminal", terminal), zap.String("barcode", barcode), zap.Int("quantity", quantity))
	return s.withTotals(inv), nil
}

// AddItem appends a custom line. Quantity must be positive, amounts
// non-negative and the discount no larger than the gross line amount.
func (s *Service) AddItem(terminal string, in LineInput) (models.Invoice, error) {
	if err := validateLine(in); err != nil {
		return models.Invoice{}, err
	}

	inv, _ := s.sessions.Update(terminal, func(inv *models.Invoice) error {
		item := models.NewLineItem(uuid.NewString(), strings.TrimSpace(in.Product), in.UnitPrice, in.Quantity, in.Discount)
		inv.Items = append(inv.Items, item)
		return nil
	})
	return s.withTotals(inv), nil
}

// RemoveItem drops one line from the open invoice.
func (s *Service) RemoveItem(terminal, itemID string) (models.Invoice, error) {
	inv, err := s.sessions.Update(terminal, func(inv *models.Invoice) error {
		for i, item := range inv.Items {
			if item.ID == itemID {
				inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	})
	if err != nil {
		return models.Invoice{}, err
	}
	return s.withTotals(inv), nil
}

// NewInvoice discards the open invoice and starts an empty one.
func (s *Service) NewInvoice(terminal string) models.Invoice {
	inv := s.sessions.Reset(terminal)
	s.logger.Info("new invoice created", zap.String("terminal", terminal), zap.String("invoice_id", inv.ID))
	return s.withTotals(inv)
}

// Save numbers the open invoice, takes its barcoded lines out of stock,
// archives it and starts a fresh one. Stock taken before a failure is put back.
// Lines added to the terminal while the save runs stay on the next invoice.
func (s *Service) Save(ctx context.Context, terminal string) (models.Invoice, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	open, rev := s.sessions.Snapshot(terminal)
	inv := s.withTotals(open)
	if len(inv.Items) == 0 {
		return models.Invoice{}, ErrEmptyInvoice
	}

	savedAt := s.now().UTC()
	count, err := s.invoices.CountInvoicesInYear(ctx, savedAt.Year())
	if err != nil {
		return models.Invoice{}, fmt.Errorf("number invoice: %w", err)
	}

	restore, err := s.takeStock(ctx, inv.Items)
	if err != nil {
		return models.Invoice{}, err
	}

	inv.Number = fmt.Sprintf("INV-%d-%04d", savedAt.Year(), count+1)
	inv.Status = models.InvoiceStatusSaved
	inv.SavedAt = &savedAt

	if err := s.invoices.SaveInvoice(ctx, inv); err != nil {
		restore()
		return models.Invoice{}, fmt.Errorf("archive invoice: %w", err)
	}

	s.sessions.Settle(terminal, inv, rev)

	s.logger.Info("invoice saved",
		zap.String("terminal", terminal),
		zap.String("number", inv.Number),
		zap.Int("items", len(inv.Items)),
		zap.String("total", inv.Totals.Total.StringFixed(2)))

	if s.settings.Printer().AutoPrint {
		s.logPrint(inv)
		inv.PrintedAt = &savedAt
	}

	return inv, nil
}

// Print records a print request for the open invoice. Output goes to the log only.
func (s *Service) Print(_ context.Context, terminal string) (models.Invoice, error) {
	at := s.now().UTC()
	inv, err := s.sessions.Update(terminal, func(inv *models.Invoice) error {
		if len(inv.Items) == 0 {
			return ErrEmptyInvoice
		}
		inv.PrintedAt = &at
		return nil
	})
	if err != nil {
		return models.Invoice{}, err
	}

	inv = s.withTotals(inv)
	s.logPrint(inv)
	return inv, nil
}

func (s *Service) takeStock(ctx context.Context, items []models.LineItem) (func(), error) {
	type taken struct {
		id  string
		qty int
	}
	var done []taken

	restore := func() {
		for _, t := range done {
			if _, err := s.catalog.AdjustStock(ctx, t.id, t.qty); err != nil {
				s.logger.Error("failed to restore stock", zap.String("product_id", t.id), zap.Error(err))
			}
		}
	}

	for _, item := range items {
		if item.ProductID == "" {
			continue
		}
		if _, err := s.catalog.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			restore()
			return nil, fmt.Errorf("take %s out of stock: %w", item.Product, err)
		}
		done = append(done, taken{id: item.ProductID, qty: item.Quantity})
	}
	return restore, nil
}

func (s *Service) withTotals(inv models.Invoice) models.Invoice {
	inv.TaxRate = s.settings.TaxRate()
	inv.Totals = billing.ComputeTotals(inv.Items, inv.TaxRate)
	return inv
}

func (s *Service) logPrint(inv models.Invoice) {
	s.logger.Info("invoice sent to printer",
		zap.String("terminal", inv.Terminal),
		zap.String("invoice_id", inv.ID),
		zap.String("number", inv.Number),
		zap.String("printer", string(s.settings.Printer().Type)))
}

func validateLine(in LineInput) error {
	switch {
	case strings.TrimSpace(in.Product) == "":
		return fmt.Errorf("%w: product is required", ErrInvalidLineItem)
	case in.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidLineItem)
	case in.UnitPrice.IsNegative():
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidLineItem)
	case in.Discount.IsNegative():
		return fmt.Errorf("%w: discount must not be negative", ErrInvalidLineItem)
	}

	gross := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
	if in.Discount.GreaterThan(gross) {
		return fmt.Errorf("%w: discount %s exceeds line amount %s", ErrInvalidLineItem, in.Discount, gross)
	}
	return nil
}

func displayName(p models.Product) string {
	if p.Size == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Size)
}
