package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mamadbah2/boutique/internal/domain/models"
	"github.com/mamadbah2/boutique/internal/repository"
)

// CatalogStore is an in-memory ProductRepository.
type CatalogStore struct {
	mu        sync.RWMutex
	products  map[string]models.Product
	byBarcode map[string]string
}

// NewCatalogStore builds a store holding the provided products.
func NewCatalogStore(products ...models.Product) *CatalogStore {
	s := &CatalogStore{
		products:  make(map[string]models.Product, len(products)),
		byBarcode: make(map[string]string, len(products)),
	}
	for _, p := range products {
		s.products[p.ID] = p
		s.byBarcode[p.Barcode] = p.ID
	}
	return s
}

// List returns every product ordered by date added, then ID.
func (s *CatalogStore) List(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateAdded.Equal(out[j].DateAdded) {
			return out[i].DateAdded.Before(out[j].DateAdded)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Get fetches a product by ID.
func (s *CatalogStore) Get(_ context.Context, id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	return p, nil
}

// GetByBarcode fetches a product by its exact barcode.
func (s *CatalogStore) GetByBarcode(_ context.Context, barcode string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byBarcode[barcode]
	if !ok {
		return models.Product{}, fmt.Errorf("barcode %s: %w", barcode, repository.ErrNotFound)
	}
	return s.products[id], nil
}

// Insert adds a product. Barcodes and IDs must be unique.
func (s *CatalogStore) Insert(_ context.Context, product models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; ok {
		return fmt.Errorf("product %s: %w", product.ID, repository.ErrDuplicate)
	}
	if _, ok := s.byBarcode[product.Barcode]; ok {
		return fmt.Errorf("barcode %s: %w", product.Barcode, repository.ErrDuplicate)
	}

	s.products[product.ID] = product
	s.byBarcode[product.Barcode] = product.ID
	return nil
}

// Update replaces a product, re-indexing its barcode when it changed.
func (s *CatalogStore) Update(_ context.Context, product models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[product.ID]
	if !ok {
		return fmt.Errorf("product %s: %w", product.ID, repository.ErrNotFound)
	}
	if product.Barcode != current.Barcode {
		if _, taken := s.byBarcode[product.Barcode]; taken {
			return fmt.Errorf("barcode %s: %w", product.Barcode, repository.ErrDuplicate)
		}
		delete(s.byBarcode, current.Barcode)
		s.byBarcode[product.Barcode] = product.ID
	}

	s.products[product.ID] = product
	return nil
}

// Delete removes a product.
func (s *CatalogStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	delete(s.byBarcode, p.Barcode)
	delete(s.products, id)
	return nil
}

// AdjustQuantity adds delta to the on-hand quantity and returns the updated product.
func (s *CatalogStore) AdjustQuantity(_ context.Context, id string, delta int) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	if p.Quantity+delta < 0 {
		return p, fmt.Errorf("product %s has %d, adjust by %d: %w", id, p.Quantity, delta, repository.ErrNegativeStock)
	}

	p.Quantity += delta
	s.products[id] = p
	return p, nil
}
