package reporting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/domain/models"
	"github.com/mamadbah2/boutique/internal/repository"
	"github.com/mamadbah2/boutique/internal/repository/sheets"
	"github.com/mamadbah2/boutique/internal/stockalert"
)

const (
	dateLayout        = "2006-01-02"
	chartDayLayout    = "Jan 2"
	chartMonthLayout  = "Jan"
	dailyReportsRange = "DailyReports!A:I"
	maxTrendDays      = 90
	maxTrendMonths    = 24
)

// ErrExportDisabled indicates no spreadsheet export is configured.
var ErrExportDisabled = errors.New("spreadsheet export is not configured")

var hundred = decimal.NewFromInt(100)

// StockSource exposes the catalog's stock records.
type StockSource interface {
	StockRecords(ctx context.Context) ([]models.StockRecord, error)
}

// Service computes dashboard and statistics figures from archived invoices.
type Service struct {
	invoices repository.InvoiceRepository
	reports  repository.ReportRepository
	stock    StockSource
	exporter sheets.Exporter
	loc      *time.Location
	logger   *zap.Logger
}

// NewService wires a new reporting service. reports and exporter may be nil.
func NewService(invoices repository.InvoiceRepository, reports repository.ReportRepository, stock StockSource, exporter sheets.Exporter, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		invoices: invoices,
		reports:  reports,
		stock:    stock,
		exporter: exporter,
		loc:      loc,
		logger:   logger,
	}
}

// Dashboard summarizes today's trading against yesterday.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (models.Dashboard, error) {
	today := s.startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	invoices, err := s.invoices.ListInvoices(ctx, yesterday, today.AddDate(0, 0, 1))
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load invoices: %w", err)
	}

	var cur, prev dayTotals
	for _, inv := range invoices {
		if inv.SavedAt.Before(today) {
			prev.add(inv)
		} else {
			cur.add(inv)
		}
	}

	records, err := s.stock.StockRecords(ctx)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load stock: %w", err)
	}

	return models.Dashboard{
		SalesToday:    metric(cur.sales, prev.sales),
		InvoicesToday: metric(decimal.NewFromInt(int64(cur.count)), decimal.NewFromInt(int64(prev.count))),
		ProfitToday:   metric(cur.profit, prev.profit),
		UnitsInStock:  unitsInStock(records),
		LowStockCount: stockalert.CountNeedsRestock(records),
	}, nil
}

// Statistics builds the charts for the last days days and months months.
func (s *Service) Statistics(ctx context.Context, now time.Time, days, months int) (models.Statistics, error) {
	days = clamp(days, 1, maxTrendDays)
	months = clamp(months, 1, maxTrendMonths)

	today := s.startOfDay(now)
	end := today.AddDate(0, 0, 1)
	dayStart := today.AddDate(0, 0, -(days - 1))
	monthStart := time.Date(today.Year(), today.Month()-time.Month(months-1), 1, 0, 0, 0, 0, s.loc)

	from := dayStart
	if monthStart.Before(from) {
		from = monthStart
	}

	invoices, err := s.invoices.ListInvoices(ctx, from, end)
	if err != nil {
		return models.Statistics{}, fmt.Errorf("load invoices: %w", err)
	}

	stats := models.Statistics{
		SalesTrend:     make([]models.SalesPoint, days),
		MonthlyRevenue: make([]models.RevenuePoint, months),
	}
	for i := range stats.SalesTrend {
		stats.SalesTrend[i] = models.SalesPoint{Date: dayStart.AddDate(0, 0, i).Format(chartDayLayout), Sales: decimal.Zero, Profit: decimal.Zero}
	}
	for i := range stats.MonthlyRevenue {
		stats.MonthlyRevenue[i] = models.RevenuePoint{Month: monthStart.AddDate(0, i, 0).Format(chartMonthLayout), Revenue: decimal.Zero}
	}

	colors := map[string]int{}
	sizes := map[string]int{}

	for _, inv := range invoices {
		saved := inv.SavedAt.In(s.loc)

		m := (saved.Year()-monthStart.Year())*12 + int(saved.Month()-monthStart.Month())
		if m >= 0 && m < months {
			stats.MonthlyRevenue[m].Revenue = stats.MonthlyRevenue[m].Revenue.Add(inv.Totals.Total)
		}

		if saved.Before(dayStart) {
			continue
		}
		d := int(math.Round(s.startOfDay(saved).Sub(dayStart).Hours() / 24))
		if d >= 0 && d < days {
			point := &stats.SalesTrend[d]
			point.Sales = point.Sales.Add(inv.Totals.Total)
			point.Profit = point.Profit.Add(inv.Profit())
		}
		for _, item := range inv.Items {
			if item.Color != "" {
				colors[item.Color] += item.Quantity
			}
			if item.Size != "" {
				sizes[item.Size] += item.Quantity
			}
		}
	}

	stats.TopColors = ranked(colors)
	stats.TopSizes = ranked(sizes)
	return stats, nil
}

// BuildDailyReport aggregates the invoices saved on day's calendar date.
func (s *Service) BuildDailyReport(ctx context.Context, day time.Time) (models.DailyReport, error) {
	start := s.startOfDay(day)

	invoices, err := s.invoices.ListInvoices(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("load invoices: %w", err)
	}

	records, err := s.stock.StockRecords(ctx)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("load stock: %w", err)
	}
	summary := stockalert.Summarize(records)

	report := models.DailyReport{
		Date:          start,
		Sales:         decimal.Zero,
		Tax:           decimal.Zero,
		Profit:        decimal.Zero,
		UnitsInStock:  unitsInStock(records),
		CriticalStock: summary.CriticalCount,
		WarningStock:  summary.WarningCount,
		CreatedAt:     time.Now().UTC(),
	}
	for _, inv := range invoices {
		report.InvoiceCount++
		report.UnitsSold += inv.Units()
		report.Sales = report.Sales.Add(inv.Totals.Total)
		report.Tax = report.Tax.Add(inv.Totals.Tax)
		report.Profit = report.Profit.Add(inv.Profit())
	}
	return report, nil
}

// CloseDay builds the day's report, stores it and exports it when configured.
// Export failures are logged and do not fail the close.
func (s *Service) CloseDay(ctx context.Context, day time.Time) (models.DailyReport, error) {
	report, err := s.BuildDailyReport(ctx, day)
	if err != nil {
		return models.DailyReport{}, err
	}

	if s.reports != nil {
		if err := s.reports.SaveDailyReport(ctx, report); err != nil {
			return models.DailyReport{}, fmt.Errorf("save daily report: %w", err)
		}
	}

	if err := s.ExportDailyReport(ctx, report); err != nil && !errors.Is(err, ErrExportDisabled) {
		s.logger.Warn("daily report export failed", zap.Error(err))
	}

	return report, nil
}

// ExportDailyReport appends the report as one spreadsheet row.
func (s *Service) ExportDailyReport(ctx context.Context, report models.DailyReport) error {
	if s.exporter == nil {
		return ErrExportDisabled
	}

	row := []interface{}{
		report.Date.Format(dateLayout),
		report.InvoiceCount,
		report.UnitsSold,
		report.Sales.StringFixed(2),
		report.Tax.StringFixed(2),
		report.Profit.StringFixed(2),
		report.UnitsInStock,
		report.CriticalStock,
		report.WarningStock,
	}
	return s.exporter.AppendRows(ctx, dailyReportsRange, [][]interface{}{row})
}

// SalesSummary formats today's dashboard as a chat message.
func (s *Service) SalesSummary(ctx context.Context, now time.Time, currency string) (string, error) {
	d, err := s.Dashboard(ctx, now)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Sales %s: %s %s across %s invoices (%s%% vs yesterday). Profit %s %s. %d units in stock, %d products low.",
		s.startOfDay(now).Format(dateLayout),
		d.SalesToday.Value.StringFixed(2), currency,
		d.InvoicesToday.Value.String(),
		signed(d.SalesToday.TrendPct),
		d.ProfitToday.Value.StringFixed(2), currency,
		d.UnitsInStock, d.LowStockCount), nil
}

func (s *Service) startOfDay(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

type dayTotals struct {
	count  int
	sales  decimal.Decimal
	profit decimal.Decimal
}

func (d *dayTotals) add(inv models.Invoice) {
	d.count++
	d.sales = d.sales.Add(inv.Totals.Total)
	d.profit = d.profit.Add(inv.Profit())
}

// metric reports current with its percentage change versus previous, rounded
// to one place. A zero previous value yields a zero trend.
func metric(current, previous decimal.Decimal) models.Metric {
	trend := decimal.Zero
	if !previous.IsZero() {
		trend = current.Sub(previous).Div(previous).Mul(hundred).Round(1)
	}
	return models.Metric{Value: current, TrendPct: trend}
}

func unitsInStock(records []models.StockRecord) int {
	var units int
	for _, r := range records {
		units += r.QuantityOnHand
	}
	return units
}

func ranked(counts map[string]int) []models.Breakdown {
	out := make([]models.Breakdown, 0, len(counts))
	for name, units := range counts {
		out = append(out, models.Breakdown{Name: name, Units: units})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Units != out[j].Units {
			return out[i].Units > out[j].Units
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func clamp(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}
