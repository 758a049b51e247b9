package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tidianess/assetflow/internal/domain/models"
)

// MaterialRepository persists returned/surplus material records.
type MaterialRepository interface {
	Create(ctx context.Context, m models.Material) error
	GetByCode(ctx context.Context, code string) (*models.Material, error)
	List(ctx context.Context, status models.MaterialStatus) ([]models.Material, error)

	// MarkDisposed is a terminal transition from in_stock.
	MarkDisposed(ctx context.Context, code string, at time.Time, disposalValue float64) (*models.Material, error)
}

type materialRepository struct {
	coll *mongo.Collection
}

// NewMaterialRepository builds the MongoDB-backed material repository.
func NewMaterialRepository(store *Store) MaterialRepository {
	return &materialRepository{coll: store.db.Collection(collMaterials)}
}

func (r *materialRepository) Create(ctx context.Context, m models.Material) error {
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateCode
		}
		return fmt.Errorf("insert material %s: %w", m.Code, err)
	}
	return nil
}

func (r *materialRepository) GetByCode(ctx context.Context, code string) (*models.Material, error) {
	var m models.Material
	err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find material %s: %w", code, err)
	}
	return &m, nil
}

func (r *materialRepository) List(ctx context.Context, status models.MaterialStatus) ([]models.Material, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}

	var materials []models.Material
	if err := cursor.All(ctx, &materials); err != nil {
		return nil, fmt.Errorf("decode materials: %w", err)
	}
	return materials, nil
}

func (r *materialRepository) MarkDisposed(ctx context.Context, code string, at time.Time, disposalValue float64) (*models.Material, error) {
	filter := bson.M{"code": code, "status": models.MaterialInStock}
	update := bson.M{"$set": bson.M{
		"status":         models.MaterialDisposed,
		"disposed_at":    at,
		"disposal_value": disposalValue,
		"updated_at":     time.Now().UTC(),
	}}

	var m models.Material
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if lookupErr := r.coll.FindOne(ctx, bson.M{"code": code}).Err(); errors.Is(lookupErr, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		} else if lookupErr != nil {
			return nil, fmt.Errorf("lookup material %s: %w", code, lookupErr)
		}
		return nil, models.ErrAlreadyDisposed
	}
	if err != nil {
		return nil, fmt.Errorf("dispose material %s: %w", code, err)
	}
	return &m, nil
}
