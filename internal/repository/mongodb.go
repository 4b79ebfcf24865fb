package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	PriceTablesCollection = "price_tables"
	LogsCollection        = "logs"
)

// Index names owned by this package.
const (
	oneActivePriceTableIndex = "one_active_price_table"
	priceTableVersionIndex   = "version_desc"
	logsTTLIndex             = "timestamp_1"
)

const healthCheckTimeout = 2 * time.Second

// MongoConfig holds connection pool settings.
type MongoConfig struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	// Compressors are offered to the server in order. Empty disables
	// wire compression.
	Compressors []string
}

// DefaultMongoConfig returns a small pool: the service stores price tables
// and audit logs, both low volume.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            20,
		MinPoolSize:            2,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		Compressors:            []string{"zstd", "snappy", "zlib"},
	}
}

func (c MongoConfig) clientOptions(uri string) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(c.MaxPoolSize).
		SetMinPoolSize(c.MinPoolSize).
		SetMaxConnIdleTime(c.MaxConnIdleTime).
		SetConnectTimeout(c.ConnectTimeout).
		SetServerSelectionTimeout(c.ServerSelectionTimeout).
		SetSocketTimeout(c.SocketTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)
	if len(c.Compressors) > 0 {
		opts.SetCompressors(c.Compressors)
	}
	return opts
}

// MongoDB holds the client and the collections the repositories use.
type MongoDB struct {
	Client      *mongo.Client
	Database    *mongo.Database
	PriceTables *mongo.Collection
	Logs        *mongo.Collection
}

// NewMongoDB connects with DefaultMongoConfig.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, DefaultMongoConfig())
}

// NewMongoDBWithConfig connects, pings the server and ensures indexes.
func NewMongoDBWithConfig(uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, cfg.clientOptions(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(databaseName)
	m := &MongoDB{
		Client:      client,
		Database:    db,
		PriceTables: db.Collection(PriceTablesCollection),
		Logs:        db.Collection(LogsCollection),
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// ensureIndexes allows at most one active price table and keeps version
// numbers unique.
func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.PriceTables.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "active", Value: 1}},
			Options: options.Index().
				SetName(oneActivePriceTableIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}),
		},
		{
			Keys:    bson.D{{Key: "version", Value: -1}},
			Options: options.Index().SetName(priceTableVersionIndex).SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("price table indexes: %w", err)
	}

	// The timestamp TTL index is owned by SetLogsTTL. Lookup indexes that
	// already exist with other options are left alone.
	_, _ = m.Logs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "order_number", Value: 1}, {Key: "action_type", Value: 1}}},
	})
	return nil
}

// SetLogsTTL replaces the expiry index on the logs collection. A ttlDays of
// zero or less keeps audit logs forever.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttlDays int) error {
	_, _ = m.Logs.Indexes().DropOne(ctx, logsTTLIndex)
	if ttlDays <= 0 {
		return nil
	}

	_, err := m.Logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().
			SetName(logsTTLIndex).
			SetExpireAfterSeconds(int32((time.Duration(ttlDays) * 24 * time.Hour).Seconds())),
	})
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && (cmdErr.Name == "IndexOptionsConflict" || cmdErr.Name == "IndexKeySpecsConflict") {
		return nil
	}
	return err
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the primary within two seconds.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}
