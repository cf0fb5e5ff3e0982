package settings

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/config"
	"github.com/mamadbah2/boutique/internal/domain/models"
)

// ErrInvalidSettings wraps every validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

var hundred = decimal.NewFromInt(100)

// Service holds the store settings in memory.
type Service struct {
	mu       sync.RWMutex
	settings models.Settings
	logger   *zap.Logger
}

// NewService seeds the settings from configuration.
func NewService(cfg config.StoreConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	printer := models.PrinterType(cfg.PrinterType)
	if !printer.Valid() {
		logger.Warn("unknown printer type, falling back to pdf", zap.String("printer", cfg.PrinterType))
		printer = models.PrinterPDF
	}

	return &Service{
		settings: models.Settings{
			Store:    models.StoreInfo{Name: cfg.Name},
			Tax:      models.TaxSettings{VATPercent: cfg.TaxRatePercent},
			Printer:  models.PrinterSettings{Type: printer, IncludeLogo: true},
			Currency: cfg.Currency,
		},
		logger: logger,
	}
}

// Get returns a copy of the current settings.
func (s *Service) Get() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// TaxRate returns the VAT rate as a fraction.
func (s *Service) TaxRate() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Tax.Rate()
}

// Printer returns the configured receipt output.
func (s *Service) Printer() models.PrinterSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Printer
}

// UpdateStore replaces the store information.
func (s *Service) UpdateStore(info models.StoreInfo) (models.Settings, error) {
	info.Name = strings.TrimSpace(info.Name)
	if info.Name == "" {
		return models.Settings{}, fmt.Errorf("%w: store name is required", ErrInvalidSettings)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Store = info
	s.logger.Info("store information saved", zap.String("name", info.Name))
	return s.settings, nil
}

// UpdateTax replaces the VAT configuration. VATPercent must lie in [0,100].
func (s *Service) UpdateTax(tax models.TaxSettings) (models.Settings, error) {
	if tax.VATPercent.IsNegative() || tax.VATPercent.GreaterThan(hundred) {
		return models.Settings{}, fmt.Errorf("%w: vat percent %s outside [0,100]", ErrInvalidSettings, tax.VATPercent)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Tax = tax
	s.logger.Info("tax settings saved", zap.String("vat_percent", tax.VATPercent.String()))
	return s.settings, nil
}

// UpdatePrinter replaces the receipt output settings.
func (s *Service) UpdatePrinter(printer models.PrinterSettings) (models.Settings, error) {
	if !printer.Type.Valid() {
		return models.Settings{}, fmt.Errorf("%w: unknown printer type %q", ErrInvalidSettings, printer.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Printer = printer
	return s.settings, nil
}

// SetPreferences toggles the display and backup switches.
func (s *Service) SetPreferences(darkMode, autoBackup bool) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.DarkMode = darkMode
	s.settings.AutoBackup = autoBackup
	return s.settings
}
