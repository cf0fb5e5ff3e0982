package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/domain/models"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// HelpText lists the commands the owner can send.
const HelpText = "Boutique commands:\n" +
	"/stock - low stock digest\n" +
	"/sales - today's sales against yesterday\n" +
	"/reorder <barcode> - ask the supplier for more of a product\n" +
	"/help - this message"

// StockAdapter defines the stock operations required by the dispatcher.
type StockAdapter interface {
	Digest(ctx context.Context) (string, error)
	OrderMore(ctx context.Context, productID string) (models.ReorderRequest, error)
}

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	SalesSummary(ctx context.Context, now time.Time, currency string) (string, error)
}

// CatalogAdapter resolves the barcode given to /reorder.
type CatalogAdapter interface {
	GetByBarcode(ctx context.Context, barcode string) (models.Product, error)
}

// Dispatcher executes parsed commands and returns the reply text.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	stock     StockAdapter
	reporting ReportingAdapter
	catalog   CatalogAdapter
	currency  string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs a command dispatcher.
func NewService(stock StockAdapter, reporting ReportingAdapter, catalog CatalogAdapter, currency string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		stock:     stock,
		reporting: reporting,
		catalog:   catalog,
		currency:  currency,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleCommand runs the command and builds the reply for the sender.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandStock:
		return s.stock.Digest(ctx)
	case models.CommandSales:
		return s.reporting.SalesSummary(ctx, s.now(), s.currency)
	case models.CommandReorder:
		return s.reorder(ctx, cmd)
	case models.CommandHelp, models.CommandUnknown:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) reorder(ctx context.Context, cmd models.Command) (string, error) {
	if len(cmd.Args) != 1 {
		return "", ErrInvalidArguments
	}

	product, err := s.catalog.GetByBarcode(ctx, cmd.Args[0])
	if err != nil {
		return "", fmt.Errorf("reorder %s: %w", cmd.Args[0], err)
	}

	req, err := s.stock.OrderMore(ctx, product.ID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Reorder sent for %s (%s/%s): %d requested, %d on hand.",
		req.Name, req.Size, req.Color, req.Requested, req.OnHand), nil
}
