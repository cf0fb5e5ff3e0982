package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/boutique/internal/domain/models"
)

const (
	invoicesCollection = "invoices"
	reportsCollection  = "daily_reports"
)

// MongoDBRepository archives invoices and daily reports in MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository connects, verifies the connection and ensures indexes.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{client: client, db: client.Database(dbName)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(invoicesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "saved_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create invoice indexes: %w", err)
	}
	return nil
}

// SaveInvoice inserts a saved invoice.
func (r *MongoDBRepository) SaveInvoice(ctx context.Context, invoice models.Invoice) error {
	doc, err := toInvoiceDocument(invoice)
	if err != nil {
		return err
	}
	if _, err := r.db.Collection(invoicesCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.Number, err)
	}
	return nil
}

// ListInvoices returns invoices saved in [from, to), oldest first.
func (r *MongoDBRepository) ListInvoices(ctx context.Context, from, to time.Time) ([]models.Invoice, error) {
	filter := bson.M{"saved_at": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().SetSort(bson.D{{Key: "saved_at", Value: 1}})

	cursor, err := r.db.Collection(invoicesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []invoiceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}

	out := make([]models.Invoice, 0, len(docs))
	for _, doc := range docs {
		inv, err := doc.toModel()
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", doc.Number, err)
		}
		out = append(out, inv)
	}
	return out, nil
}

// CountInvoicesInYear counts invoices saved during year (UTC).
func (r *MongoDBRepository) CountInvoicesInYear(ctx context.Context, year int) (int64, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	filter := bson.M{"saved_at": bson.M{"$gte": start, "$lt": start.AddDate(1, 0, 0)}}

	n, err := r.db.Collection(invoicesCollection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return n, nil
}

// SaveDailyReport saves a daily report to the database.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	doc, err := toReportDocument(report)
	if err != nil {
		return err
	}
	if _, err := r.db.Collection(reportsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

type lineItemDocument struct {
	ID        string               `bson:"id"`
	Barcode   string               `bson:"barcode,omitempty"`
	ProductID string               `bson:"product_id,omitempty"`
	Product   string               `bson:"product"`
	Size      string               `bson:"size,omitempty"`
	Color     string               `bson:"color,omitempty"`
	UnitPrice primitive.Decimal128 `bson:"unit_price"`
	UnitCost  primitive.Decimal128 `bson:"unit_cost"`
	Quantity  int                  `bson:"quantity"`
	Discount  primitive.Decimal128 `bson:"discount"`
	LineTotal primitive.Decimal128 `bson:"line_total"`
}

type invoiceDocument struct {
	ID        string               `bson:"_id"`
	Number    string               `bson:"number"`
	Terminal  string               `bson:"terminal"`
	Items     []lineItemDocument   `bson:"items"`
	TaxRate   primitive.Decimal128 `bson:"tax_rate"`
	Subtotal  primitive.Decimal128 `bson:"subtotal"`
	Tax       primitive.Decimal128 `bson:"tax"`
	Total     primitive.Decimal128 `bson:"total"`
	OpenedAt  time.Time            `bson:"opened_at"`
	SavedAt   time.Time            `bson:"saved_at"`
	PrintedAt *time.Time           `bson:"printed_at,omitempty"`
}

type reportDocument struct {
	Date          time.Time            `bson:"date"`
	InvoiceCount  int                  `bson:"invoice_count"`
	UnitsSold     int                  `bson:"units_sold"`
	Sales         primitive.Decimal128 `bson:"sales"`
	Tax           primitive.Decimal128 `bson:"tax"`
	Profit        primitive.Decimal128 `bson:"profit"`
	UnitsInStock  int                  `bson:"units_in_stock"`
	CriticalStock int                  `bson:"critical_stock"`
	WarningStock  int                  `bson:"warning_stock"`
	CreatedAt     time.Time            `bson:"created_at"`
}

// decimalCodec accumulates the first conversion error so documents can be
// built field by field without an error check per amount.
type decimalCodec struct {
	err error
}

func (c *decimalCodec) to(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("convert %s to decimal128: %w", d, err)
	}
	return v
}

func (c *decimalCodec) from(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("convert decimal128 %s: %w", v, err)
	}
	return d
}

var errUnsavedInvoice = errors.New("invoice has no saved timestamp")

func toInvoiceDocument(inv models.Invoice) (invoiceDocument, error) {
	if inv.SavedAt == nil {
		return invoiceDocument{}, errUnsavedInvoice
	}

	var c decimalCodec
	doc := invoiceDocument{
		ID:        inv.ID,
		Number:    inv.Number,
		Terminal:  inv.Terminal,
		TaxRate:   c.to(inv.TaxRate),
		Subtotal:  c.to(inv.Totals.Subtotal),
		Tax:       c.to(inv.Totals.Tax),
		Total:     c.to(inv.Totals.Total),
		OpenedAt:  inv.OpenedAt,
		SavedAt:   *inv.SavedAt,
		PrintedAt: inv.PrintedAt,
	}
	for _, item := range inv.Items {
		doc.Items = append(doc.Items, lineItemDocument{
			ID:        item.ID,
			Barcode:   item.Barcode,
			ProductID: item.ProductID,
			Product:   item.Product,
			Size:      item.Size,
			Color:     item.Color,
			UnitPrice: c.to(item.UnitPrice),
			UnitCost:  c.to(item.UnitCost),
			Quantity:  item.Quantity,
			Discount:  c.to(item.Discount),
			LineTotal: c.to(item.LineTotal),
		})
	}
	return doc, c.err
}

func (d invoiceDocument) toModel() (models.Invoice, error) {
	var c decimalCodec
	saved := d.SavedAt
	inv := models.Invoice{
		ID:       d.ID,
		Number:   d.Number,
		Terminal: d.Terminal,
		Status:   models.InvoiceStatusSaved,
		TaxRate:  c.from(d.TaxRate),
		Totals: models.Totals{
			Subtotal: c.from(d.Subtotal),
			Tax:      c.from(d.Tax),
			Total:    c.from(d.Total),
		},
		OpenedAt:  d.OpenedAt,
		SavedAt:   &saved,
		PrintedAt: d.PrintedAt,
	}
	for _, item := range d.Items {
		inv.Items = append(inv.Items, models.LineItem{
			ID:        item.ID,
			Barcode:   item.Barcode,
			ProductID: item.ProductID,
			Product:   item.Product,
			Size:      item.Size,
			Color:     item.Color,
			UnitPrice: c.from(item.UnitPrice),
			UnitCost:  c.from(item.UnitCost),
			Quantity:  item.Quantity,
			Discount:  c.from(item.Discount),
			LineTotal: c.from(item.LineTotal),
		})
	}
	return inv, c.err
}

func toReportDocument(r models.DailyReport) (reportDocument, error) {
	var c decimalCodec
	doc := reportDocument{
		Date:          r.Date,
		InvoiceCount:  r.InvoiceCount,
		UnitsSold:     r.UnitsSold,
		Sales:         c.to(r.Sales),
		Tax:           c.to(r.Tax),
		Profit:        c.to(r.Profit),
		UnitsInStock:  r.UnitsInStock,
		CriticalStock: r.CriticalStock,
		WarningStock:  r.WarningStock,
		CreatedAt:     r.CreatedAt,
	}
	return doc, c.err
}
