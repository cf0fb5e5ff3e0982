package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/domain/models"
	"github.com/mamadbah2/boutique/internal/repository"
)

var (
	// ErrProductNotFound indicates no product matches the ID or barcode.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateBarcode indicates another product already uses the barcode.
	ErrDuplicateBarcode = errors.New("barcode already in use")
	// ErrInvalidProduct wraps field validation failures.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInsufficientStock indicates a stock adjustment would go below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductInput carries the editable product fields.
type ProductInput struct {
	Barcode      string          `json:"barcode" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Size         string          `json:"size"`
	Color        string          `json:"color"`
	Type         string          `json:"type"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Quantity     int             `json:"quantity"`
	ReorderLevel int             `json:"reorder_level"`
}

// Service manages the product catalog.
type Service struct {
	repo   repository.ProductRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a catalog service.
func NewService(repo repository.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// List returns the products matching filter. The query matches a
// case-insensitive name substring or a barcode substring; the color filter
// is a case-insensitive equality where "" and "all" match everything.
func (s *Service) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	color := strings.TrimSpace(filter.Color)
	anyColor := color == "" || strings.EqualFold(color, "all")

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		matchesSearch := strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(p.Barcode, query)
		matchesColor := anyColor || strings.EqualFold(p.Color, color)
		if matchesSearch && matchesColor {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get fetches a product by ID.
func (s *Service) Get(ctx context.Context, id string) (models.Product, error) {
	p, err := s.repo.Get(ctx, id)
	return p, translate(err)
}

// GetByBarcode fetches a product by barcode.
func (s *Service) GetByBarcode(ctx context.Context, barcode string) (models.Product, error) {
	p, err := s.repo.GetByBarcode(ctx, strings.TrimSpace(barcode))
	return p, translate(err)
}

// Create validates and inserts a new product.
func (s *Service) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := validate(in); err != nil {
		return models.Product{}, err
	}

	p := apply(models.Product{ID: uuid.NewString(), DateAdded: s.now().UTC()}, in)
	if err := s.repo.Insert(ctx, p); err != nil {
		return models.Product{}, translate(err)
	}

	s.logger.Info("product created", zap.String("id", p.ID), zap.String("barcode", p.Barcode))
	return p, nil
}

// Update replaces the editable fields of a product.
func (s *Service) Update(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	if err := validate(in); err != nil {
		return models.Product{}, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Product{}, translate(err)
	}

	p := apply(current, in)
	if err := s.repo.Update(ctx, p); err != nil {
		return models.Product{}, translate(err)
	}
	return p, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.logger.Info("product deleted", zap.String("id", id))
	return nil
}

// AdjustStock adds delta (possibly negative) to the on-hand quantity.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (models.Product, error) {
	p, err := s.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		return models.Product{}, translate(err)
	}
	s.logger.Debug("stock adjusted", zap.String("id", id), zap.Int("delta", delta), zap.Int("quantity", p.Quantity))
	return p, nil
}

// SetReorderLevel updates the threshold the stock screen compares against.
func (s *Service) SetReorderLevel(ctx context.Context, id string, level int) (models.Product, error) {
	if level < 0 {
		return models.Product{}, fmt.Errorf("%w: reorder level must not be negative", ErrInvalidProduct)
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Product{}, translate(err)
	}

	p.ReorderLevel = level
	if err := s.repo.Update(ctx, p); err != nil {
		return models.Product{}, translate(err)
	}
	return p, nil
}

// StockRecords projects the whole catalog for the alert classifier.
func (s *Service) StockRecords(ctx context.Context) ([]models.StockRecord, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	records := make([]models.StockRecord, 0, len(products))
	for _, p := range products {
		records = append(records, p.StockRecord())
	}
	return records, nil
}

func validate(in ProductInput) error {
	switch {
	case strings.TrimSpace(in.Barcode) == "":
		return fmt.Errorf("%w: barcode is required", ErrInvalidProduct)
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case in.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	case in.Cost.IsNegative():
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidProduct)
	case in.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidProduct)
	case in.ReorderLevel < 0:
		return fmt.Errorf("%w: reorder level must not be negative", ErrInvalidProduct)
	}
	return nil
}

func apply(p models.Product, in ProductInput) models.Product {
	p.Barcode = strings.TrimSpace(in.Barcode)
	p.Name = strings.TrimSpace(in.Name)
	p.Size = in.Size
	p.Color = in.Color
	p.Type = in.Type
	p.Price = in.Price
	p.Cost = in.Cost
	p.Quantity = in.Quantity
	p.ReorderLevel = in.ReorderLevel
	return p
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrProductNotFound, err)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrDuplicateBarcode, err)
	case errors.Is(err, repository.ErrNegativeStock):
		return fmt.Errorf("%w: %v", ErrInsufficientStock, err)
	default:
		return err
	}
}
