package models

import "github.com/shopspring/decimal"

// PrinterType enumerates supported receipt outputs.
type PrinterType string

const (
	PrinterPDF       PrinterType = "pdf"
	PrinterThermal58 PrinterType = "thermal"
	PrinterThermal80 PrinterType = "thermal-80"
	PrinterLaser     PrinterType = "laser"
)

// Valid reports whether the printer type is one of the known outputs.
func (p PrinterType) Valid() bool {
	switch p {
	case PrinterPDF, PrinterThermal58, PrinterThermal80, PrinterLaser:
		return true
	}
	return false
}

// StoreInfo is printed on invoice headers.
type StoreInfo struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// TaxSettings holds VAT configuration. VATPercent is expressed in percent (14 means 14%).
type TaxSettings struct {
	VATPercent decimal.Decimal `json:"vat_percent"`
	TaxID      string          `json:"tax_id"`
}

// Rate converts the percentage to a fraction in [0,1].
func (t TaxSettings) Rate() decimal.Decimal {
	return t.VATPercent.Div(decimal.NewFromInt(100))
}

// PrinterSettings configures receipt output.
type PrinterSettings struct {
	Type        PrinterType `json:"type" binding:"required"`
	AutoPrint   bool        `json:"auto_print"`
	IncludeLogo bool        `json:"include_logo"`
}

// Settings is the full settings screen state.
type Settings struct {
	Store      StoreInfo       `json:"store"`
	Tax        TaxSettings     `json:"tax"`
	Printer    PrinterSettings `json:"printer"`
	AutoBackup bool            `json:"auto_backup"`
	DarkMode   bool            `json:"dark_mode"`
	Currency   string          `json:"currency"`
}
