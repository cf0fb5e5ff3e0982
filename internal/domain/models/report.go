package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyReport represents the aggregated end-of-day figures archived by the scheduler.
type DailyReport struct {
	Date          time.Time       `json:"date"`
	InvoiceCount  int             `json:"invoice_count"`
	UnitsSold     int             `json:"units_sold"`
	Sales         decimal.Decimal `json:"sales"`
	Tax           decimal.Decimal `json:"tax"`
	Profit        decimal.Decimal `json:"profit"`
	UnitsInStock  int             `json:"units_in_stock"`
	CriticalStock int             `json:"critical_stock"`
	WarningStock  int             `json:"warning_stock"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Metric is a dashboard tile value with its change versus the previous period.
type Metric struct {
	Value    decimal.Decimal `json:"value"`
	TrendPct decimal.Decimal `json:"trend_pct"`
}

// Dashboard is the landing screen payload.
type Dashboard struct {
	SalesToday    Metric `json:"sales_today"`
	InvoicesToday Metric `json:"invoices_today"`
	ProfitToday   Metric `json:"profit_today"`
	UnitsInStock  int    `json:"units_in_stock"`
	LowStockCount int    `json:"low_stock_count"`
}

// SalesPoint is one day on the sales trend chart.
type SalesPoint struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
}

// RevenuePoint is one month on the revenue chart.
type RevenuePoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Breakdown counts units sold for one attribute value (a color or a size).
type Breakdown struct {
	Name  string `json:"name"`
	Units int    `json:"units"`
}

// Statistics is the statistics screen payload.
type Statistics struct {
	SalesTrend     []SalesPoint   `json:"sales_trend"`
	TopColors      []Breakdown    `json:"top_colors"`
	TopSizes       []Breakdown    `json:"top_sizes"`
	MonthlyRevenue []RevenuePoint `json:"monthly_revenue"`
}
