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

// RequestRepository persists stock requests. Status transitions are expressed
// as conditional updates on the pending state so issued and rejected remain
// terminal even under concurrent closers.
type RequestRepository interface {
	Create(ctx context.Context, req models.Request) error
	GetByReference(ctx context.Context, reference string) (*models.Request, error)
	ListByItem(ctx context.Context, itemCode string) ([]models.Request, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.Request, error)

	// Close moves a pending request into a terminal status. A request already
	// out of the pending state yields ErrRequestClosed.
	Close(ctx context.Context, reference string, status models.RequestStatus, closedBy string, at time.Time) (*models.Request, error)
}

type requestRepository struct {
	coll *mongo.Collection
}

// NewRequestRepository builds the MongoDB-backed request repository.
func NewRequestRepository(store *Store) RequestRepository {
	return &requestRepository{coll: store.db.Collection(collRequests)}
}

func (r *requestRepository) Create(ctx context.Context, req models.Request) error {
	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateCode
		}
		return fmt.Errorf("insert request %s: %w", req.Reference, err)
	}
	return nil
}

func (r *requestRepository) GetByReference(ctx context.Context, reference string) (*models.Request, error) {
	var req models.Request
	err := r.coll.FindOne(ctx, bson.M{"reference": reference}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find request %s: %w", reference, err)
	}
	return &req, nil
}

func (r *requestRepository) ListByItem(ctx context.Context, itemCode string) ([]models.Request, error) {
	return r.list(ctx, bson.M{"item_code": itemCode})
}

func (r *requestRepository) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.Request, error) {
	return r.list(ctx, bson.M{"status": status})
}

func (r *requestRepository) list(ctx context.Context, filter bson.M) ([]models.Request, error) {
	cursor, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	var reqs []models.Request
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}
	return reqs, nil
}

func (r *requestRepository) Close(ctx context.Context, reference string, status models.RequestStatus, closedBy string, at time.Time) (*models.Request, error) {
	if status != models.RequestIssued && status != models.RequestRejected {
		return nil, fmt.Errorf("status %q is not terminal", status)
	}

	filter := bson.M{"reference": reference, "status": models.RequestPending}
	update := bson.M{"$set": bson.M{
		"status":    status,
		"closed_at": at,
		"closed_by": closedBy,
	}}

	var req models.Request
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.closedOrMissing(ctx, reference)
	}
	if err != nil {
		return nil, fmt.Errorf("close request %s: %w", reference, err)
	}
	return &req, nil
}

func (r *requestRepository) closedOrMissing(ctx context.Context, reference string) error {
	err := r.coll.FindOne(ctx, bson.M{"reference": reference}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup request %s: %w", reference, err)
	}
	return models.ErrRequestClosed
}
