package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/boutique/internal/domain/models"
	"github.com/mamadbah2/boutique/internal/repository/memory"
)

func newService() *Service {
	return NewService(memory.NewCatalogStore(memory.DemoCatalog()...), nil)
}

func TestList_Filters(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.ProductFilter
		want   int
	}{
		{"everything", models.ProductFilter{}, 7},
		{"all colors keyword", models.ProductFilter{Color: "all"}, 7},
		{"name is case insensitive", models.ProductFilter{Query: "HOODIE"}, 1},
		{"barcode substring", models.ProductFilter{Query: "456789"}, 7},
		{"exact barcode", models.ProductFilter{Query: "1234567896"}, 1},
		{"color filter", models.ProductFilter{Color: "red"}, 2},
		{"query and color", models.ProductFilter{Query: "sneakers", Color: "Red"}, 1},
		{"query and wrong color", models.ProductFilter{Query: "sneakers", Color: "blue"}, 0},
		{"no match", models.ProductFilter{Query: "scarf"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("List(%+v) returned %d products, want %d", tt.filter, len(got), tt.want)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	in := ProductInput{
		Barcode:  "2000000000001",
		Name:     "Linen Shirt",
		Size:     "L",
		Color:    "White",
		Type:     "Shirt",
		Price:    decimal.RequireFromString("349.99"),
		Cost:     decimal.RequireFromString("210"),
		Quantity: 12,
	}
	p, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID == "" || p.DateAdded.IsZero() {
		t.Errorf("Create() did not stamp ID/date: %+v", p)
	}

	if _, err := svc.Create(ctx, in); !errors.Is(err, ErrDuplicateBarcode) {
		t.Errorf("duplicate Create() error = %v, want ErrDuplicateBarcode", err)
	}

	got, err := svc.GetByBarcode(ctx, " 2000000000001 ")
	if err != nil || got.ID != p.ID {
		t.Errorf("GetByBarcode() = %+v, %v", got, err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newService()
	cases := []ProductInput{
		{Name: "no barcode"},
		{Barcode: "1"},
		{Barcode: "1", Name: "x", Price: decimal.NewFromInt(-1)},
		{Barcode: "1", Name: "x", Quantity: -1},
		{Barcode: "1", Name: "x", ReorderLevel: -3},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidProduct) {
			t.Errorf("Create(%+v) error = %v, want ErrInvalidProduct", in, err)
		}
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.GetByBarcode(ctx, "1234567890")
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, p.ID, ProductInput{Barcode: p.Barcode, Name: "Classic Tee", Price: p.Price, Quantity: 40})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Classic Tee" || updated.Quantity != 40 || !updated.DateAdded.Equal(p.DateAdded) {
		t.Errorf("Update() = %+v", updated)
	}

	if _, err := svc.Update(ctx, p.ID, ProductInput{Barcode: "1234567891", Name: "clash"}); !errors.Is(err, ErrDuplicateBarcode) {
		t.Errorf("barcode clash error = %v", err)
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Get after delete error = %v, want ErrProductNotFound", err)
	}
}

func TestAdjustStockAndReorderLevel(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	p, _ := svc.GetByBarcode(ctx, "1234567894")

	if _, err := svc.AdjustStock(ctx, p.ID, -2); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("AdjustStock error = %v, want ErrInsufficientStock", err)
	}
	got, err := svc.AdjustStock(ctx, p.ID, 9)
	if err != nil || got.Quantity != 10 {
		t.Errorf("AdjustStock = %+v, %v", got, err)
	}

	if _, err := svc.SetReorderLevel(ctx, p.ID, -1); !errors.Is(err, ErrInvalidProduct) {
		t.Errorf("SetReorderLevel(-1) error = %v", err)
	}
	got, err = svc.SetReorderLevel(ctx, p.ID, 12)
	if err != nil || got.ReorderLevel != 12 {
		t.Errorf("SetReorderLevel = %+v, %v", got, err)
	}
}

func TestStockRecords(t *testing.T) {
	records, err := newService().StockRecords(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 7 {
		t.Fatalf("StockRecords() returned %d", len(records))
	}
	if records[0].QuantityOnHand != 45 || records[0].ReorderLevel != 10 {
		t.Errorf("first record = %+v", records[0])
	}
}
