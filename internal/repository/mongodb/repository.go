package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collStockItems   = "stock_items"
	collTransactions = "transactions"
	collRequests     = "requests"
	collMaterials    = "materials"
	collEquipment    = "equipment"
	collCertificates = "certificates"
	collTransfers    = "custody_transfers"
	collUsers        = "users"
	collReports      = "daily_reports"
)

// Store owns the MongoDB client shared by all repositories. It is constructed
// once at process start and injected; there is no package-level connection.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB, verifies the connection and ensures the
// indexes the repositories rely on.
func NewStore(ctx context.Context, uri string, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		collStockItems: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
		},
		collTransactions: {
			{Keys: bson.D{{Key: "item_code", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		collRequests: {
			{Keys: bson.D{{Key: "reference", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "item_code", Value: 1}, {Key: "status", Value: 1}}},
		},
		collMaterials: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
		},
		collEquipment: {
			{Keys: bson.D{{Key: "tag", Value: 1}}, Options: unique},
		},
		collCertificates: {
			{Keys: bson.D{{Key: "equipment_tag", Value: 1}, {Key: "expires_at", Value: 1}}},
		},
		collTransfers: {
			{Keys: bson.D{{Key: "equipment_tag", Value: 1}, {Key: "transferred_at", Value: 1}}},
		},
		collUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
	}

	for coll, models := range specs {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}

	return nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
