package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/boutique/internal/domain/models"
)

type seedProduct struct {
	barcode, name, size, color, kind string
	price, cost                      string
	quantity, reorderLevel           int
	added                            string
}

var demoCatalog = []seedProduct{
	{"1234567890", "Classic T-Shirt", "M", "Blue", "Shirt", "299.99", "180.00", 45, 10, "2025-10-01"},
	{"1234567891", "Warm Hoodie", "L", "Red", "Hoodie", "499.99", "320.00", 23, 10, "2025-10-02"},
	{"1234567892", "Casual Jeans", "32", "Black", "Pants", "599.99", "390.00", 3, 10, "2025-10-03"},
	{"1234567893", "Summer Dress", "S", "White", "Dress", "449.99", "280.00", 2, 10, "2025-10-03"},
	{"1234567894", "Winter Jacket", "XL", "Navy", "Jacket", "899.99", "610.00", 1, 5, "2025-10-04"},
	{"1234567895", "Sports Sneakers", "10", "Red", "Shoes", "749.99", "500.00", 4, 8, "2025-10-04"},
	{"1234567896", "Leather Belt", "M", "Brown", "Accessory", "149.99", "85.00", 5, 10, "2025-10-05"},
}

// DemoCatalog returns the demo store catalog used when no other data source is configured.
func DemoCatalog() []models.Product {
	out := make([]models.Product, 0, len(demoCatalog))
	for i, p := range demoCatalog {
		added, _ := time.Parse("2006-01-02", p.added)
		out = append(out, models.Product{
			ID:           "p-" + p.barcode[len(p.barcode)-2:],
			Barcode:      p.barcode,
			Name:         p.name,
			Size:         p.size,
			Color:        p.color,
			Type:         p.kind,
			Price:        decimal.RequireFromString(p.price),
			Cost:         decimal.RequireFromString(p.cost),
			Quantity:     p.quantity,
			ReorderLevel: p.reorderLevel,
			DateAdded:    added.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}
