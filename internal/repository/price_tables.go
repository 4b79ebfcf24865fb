package repository

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

	"github.com/guttosm/print-order-service/internal/domain/model"
)

// ErrPriceTableNotFound is returned when no stored table has the given ID.
var ErrPriceTableNotFound = errors.New("price table not found")

// PriceTableDocument is a price table version as stored in MongoDB. Rates are
// kept as Decimal128 so no precision is lost in storage.
type PriceTableDocument struct {
	ID             primitive.ObjectID              `bson:"_id,omitempty"`
	Version        int                             `bson:"version"`
	Active         bool                            `bson:"active"`
	Currency       string                          `bson:"currency"`
	MonochromeRate primitive.Decimal128            `bson:"monochrome_rate"`
	ColoredRate    primitive.Decimal128            `bson:"colored_rate"`
	BindingRates   map[string]primitive.Decimal128 `bson:"binding_rates"`
	DeliveryRate   primitive.Decimal128            `bson:"delivery_rate"`
	CreatedAt      time.Time                       `bson:"created_at"`
	UpdatedAt      time.Time                       `bson:"updated_at"`
	CreatedBy      string                          `bson:"created_by,omitempty"`
	ActivatedBy    string                          `bson:"activated_by,omitempty"`
}

func newPriceTableDocument(t model.PriceTable) (PriceTableDocument, error) {
	doc := PriceTableDocument{
		Currency:     t.Currency,
		BindingRates: make(map[string]primitive.Decimal128, len(t.BindingRates)),
	}

	var err error
	if doc.MonochromeRate, err = toDecimal128(t.MonochromeRate); err != nil {
		return doc, err
	}
	if doc.ColoredRate, err = toDecimal128(t.ColoredRate); err != nil {
		return doc, err
	}
	if doc.DeliveryRate, err = toDecimal128(t.DeliveryRate); err != nil {
		return doc, err
	}
	for method, rate := range t.BindingRates {
		d, err := toDecimal128(rate)
		if err != nil {
			return doc, err
		}
		doc.BindingRates[string(method)] = d
	}
	return doc, nil
}

// Record converts the document into its domain form.
func (d PriceTableDocument) Record() (model.PriceTableRecord, error) {
	table := model.PriceTable{
		Version:      d.Version,
		Currency:     d.Currency,
		BindingRates: make(map[model.BindingMethod]decimal.Decimal, len(d.BindingRates)),
	}

	var err error
	if table.MonochromeRate, err = fromDecimal128(d.MonochromeRate); err != nil {
		return model.PriceTableRecord{}, err
	}
	if table.ColoredRate, err = fromDecimal128(d.ColoredRate); err != nil {
		return model.PriceTableRecord{}, err
	}
	if table.DeliveryRate, err = fromDecimal128(d.DeliveryRate); err != nil {
		return model.PriceTableRecord{}, err
	}
	for method, rate := range d.BindingRates {
		v, err := fromDecimal128(rate)
		if err != nil {
			return model.PriceTableRecord{}, err
		}
		table.BindingRates[model.BindingMethod(method)] = v
	}

	return model.PriceTableRecord{
		ID:        d.ID.Hex(),
		Table:     table,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		CreatedBy: d.CreatedBy,
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode rate %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode rate %s: %w", v, err)
	}
	return d, nil
}

// PriceTablesRepository stores versioned price tables. Exactly one version is
// active at a time; older versions are kept for history and rollback.
type PriceTablesRepository struct {
	collection *mongo.Collection
}

// NewPriceTablesRepository creates a new price tables repository.
func NewPriceTablesRepository(db *MongoDB) *PriceTablesRepository {
	return &PriceTablesRepository{
		collection: db.PriceTables,
	}
}

// GetActive returns the active price table, or nil when none has been stored.
func (r *PriceTablesRepository) GetActive(ctx context.Context) (*model.PriceTableRecord, error) {
	var doc PriceTableDocument
	err := r.collection.FindOne(ctx, bson.M{"active": true}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec, err := doc.Record()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create stores table as the next version and makes it the active one.
func (r *PriceTablesRepository) Create(ctx context.Context, table model.PriceTable, createdBy string) (*model.PriceTableRecord, error) {
	doc, err := newPriceTableDocument(table)
	if err != nil {
		return nil, err
	}

	latest, err := r.latestVersion(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = r.collection.UpdateMany(
		ctx,
		bson.M{"active": true},
		bson.M{"$set": bson.M{"active": false, "updated_at": now}},
	)
	if err != nil {
		return nil, err
	}

	doc.ID = primitive.NewObjectID()
	doc.Version = latest + 1
	doc.Active = true
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.CreatedBy = createdBy

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	rec, err := doc.Record()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Activate makes a stored version the active one again.
func (r *PriceTablesRepository) Activate(ctx context.Context, id string, activatedBy string) (*model.PriceTableRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPriceTableNotFound
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPriceTableNotFound
	}

	now := time.Now().UTC()
	_, err = r.collection.UpdateMany(
		ctx,
		bson.M{"active": true, "_id": bson.M{"$ne": oid}},
		bson.M{"$set": bson.M{"active": false, "updated_at": now}},
	)
	if err != nil {
		return nil, err
	}

	set := bson.M{"active": true, "updated_at": now}
	if activatedBy != "" {
		set["activated_by"] = activatedBy
	}

	var doc PriceTableDocument
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPriceTableNotFound
	}
	if err != nil {
		return nil, err
	}

	rec, err := doc.Record()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns stored versions, newest first.
func (r *PriceTablesRepository) List(ctx context.Context, limit int) ([]model.PriceTableRecord, error) {
	opts := options.Find().SetSort(bson.M{"version": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []PriceTableDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]model.PriceTableRecord, 0, len(docs))
	for _, doc := range docs {
		rec, err := doc.Record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *PriceTablesRepository) latestVersion(ctx context.Context) (int, error) {
	var doc PriceTableDocument
	err := r.collection.FindOne(
		ctx,
		bson.M{},
		options.FindOne().SetSort(bson.M{"version": -1}).SetProjection(bson.M{"version": 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.Version, nil
}
