// Package stockalert classifies stock records by low-stock urgency.
package stockalert

import "github.com/mamadbah2/boutique/internal/domain/models"

const (
	// CriticalMax is the highest on-hand quantity still considered critical.
	CriticalMax = 2
	// WarningMax is the highest on-hand quantity still considered a warning.
	WarningMax = 5
)

// Classify returns the severity for a single record.
func Classify(record models.StockRecord) models.Severity {
	switch q := record.QuantityOnHand; {
	case q <= CriticalMax:
		return models.SeverityCritical
	case q <= WarningMax:
		return models.SeverityWarning
	default:
		return models.SeverityNormal
	}
}

// Summarize counts critical and warning records.
func Summarize(records []models.StockRecord) models.StockSummary {
	var summary models.StockSummary
	for _, record := range records {
		switch Classify(record) {
		case models.SeverityCritical:
			summary.CriticalCount++
		case models.SeverityWarning:
			summary.WarningCount++
		}
	}
	return summary
}

// NeedsRestock reports whether the record belongs on the stock screen:
// critical, warning, or at or below its reorder level.
func NeedsRestock(record models.StockRecord) bool {
	return Classify(record) != models.SeverityNormal || record.QuantityOnHand <= record.ReorderLevel
}

// CountNeedsRestock counts the records NeedsRestock selects.
func CountNeedsRestock(records []models.StockRecord) int {
	n := 0
	for _, record := range records {
		if NeedsRestock(record) {
			n++
		}
	}
	return n
}
