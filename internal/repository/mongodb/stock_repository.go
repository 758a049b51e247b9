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

// StockRepository persists stock master records and their mutable counters.
// Every counter mutation is a single conditional update so an availability
// check and its decrement commit atomically; there is no read-modify-write
// across round trips.
type StockRepository interface {
	Create(ctx context.Context, item models.StockItem) error
	GetByCode(ctx context.Context, code string) (*models.StockItem, error)
	List(ctx context.Context, includeRetired bool) ([]models.StockItem, error)
	Retire(ctx context.Context, code string) error

	// DecrementIfAvailable subtracts qty from the item's quantity only when
	// quantity >= qty, returning the post-update document. It reports
	// ErrInsufficientStock when the item exists but the balance is short.
	DecrementIfAvailable(ctx context.Context, code string, qty float64) (*models.StockItem, error)

	// IncrementQuantity adds delta (which may be negative for adjustments;
	// negative deltas are still guarded so quantity never goes below zero).
	IncrementQuantity(ctx context.Context, code string, delta float64) (*models.StockItem, error)

	// ReservePending adds qty to pending_requests provided the item currently
	// has at least qty on hand.
	ReservePending(ctx context.Context, code string, qty float64) (*models.StockItem, error)

	// ReleasePending subtracts qty from pending_requests, clamping at zero via
	// the filter rather than arithmetic.
	ReleasePending(ctx context.Context, code string, qty float64) error

	// SetQuantity overwrites the cached balance; used only by reconciliation
	// when the ledger disagrees with the stored counter.
	SetQuantity(ctx context.Context, code string, qty float64) error
}

type stockRepository struct {
	coll *mongo.Collection
}

// NewStockRepository builds the MongoDB-backed stock repository.
func NewStockRepository(store *Store) StockRepository {
	return &stockRepository{coll: store.db.Collection(collStockItems)}
}

func (r *stockRepository) Create(ctx context.Context, item models.StockItem) error {
	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateCode
		}
		return fmt.Errorf("insert stock item %s: %w", item.Code, err)
	}
	return nil
}

func (r *stockRepository) GetByCode(ctx context.Context, code string) (*models.StockItem, error) {
	var item models.StockItem
	err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find stock item %s: %w", code, err)
	}
	return &item, nil
}

func (r *stockRepository) List(ctx context.Context, includeRetired bool) ([]models.StockItem, error) {
	filter := bson.M{}
	if !includeRetired {
		filter["active"] = true
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}

	var items []models.StockItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode stock items: %w", err)
	}
	return items, nil
}

func (r *stockRepository) Retire(ctx context.Context, code string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"active": false, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("retire stock item %s: %w", code, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *stockRepository) DecrementIfAvailable(ctx context.Context, code string, qty float64) (*models.StockItem, error) {
	filter := bson.M{"code": code, "quantity": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"quantity": -qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	var item models.StockItem
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.shortOrMissing(ctx, code)
	}
	if err != nil {
		return nil, fmt.Errorf("decrement stock %s: %w", code, err)
	}
	return &item, nil
}

func (r *stockRepository) IncrementQuantity(ctx context.Context, code string, delta float64) (*models.StockItem, error) {
	filter := bson.M{"code": code}
	if delta < 0 {
		// A negative adjustment may not drive the balance below zero.
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	var item models.StockItem
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.shortOrMissing(ctx, code)
	}
	if err != nil {
		return nil, fmt.Errorf("adjust stock %s: %w", code, err)
	}
	return &item, nil
}

func (r *stockRepository) ReservePending(ctx context.Context, code string, qty float64) (*models.StockItem, error) {
	filter := bson.M{"code": code, "quantity": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"pending_requests": qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	var item models.StockItem
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.shortOrMissing(ctx, code)
	}
	if err != nil {
		return nil, fmt.Errorf("reserve pending on %s: %w", code, err)
	}
	return &item, nil
}

func (r *stockRepository) ReleasePending(ctx context.Context, code string, qty float64) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"code": code, "pending_requests": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"pending_requests": -qty},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return fmt.Errorf("release pending on %s: %w", code, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *stockRepository) SetQuantity(ctx context.Context, code string, qty float64) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"quantity": qty, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("set quantity on %s: %w", code, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// shortOrMissing disambiguates a failed conditional update: the item either
// does not exist (not found) or exists with an insufficient balance (conflict).
func (r *stockRepository) shortOrMissing(ctx context.Context, code string) error {
	err := r.coll.FindOne(ctx, bson.M{"code": code}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup stock item %s: %w", code, err)
	}
	return models.ErrInsufficientStock
}
