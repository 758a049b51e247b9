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

// AssetRepository persists the equipment registry along with calibration
// certificates and the append-only custody-transfer log.
type AssetRepository interface {
	CreateEquipment(ctx context.Context, eq models.Equipment) error
	GetEquipment(ctx context.Context, tag string) (*models.Equipment, error)
	ListEquipment(ctx context.Context, category string) ([]models.Equipment, error)
	UpdateEquipmentStatus(ctx context.Context, tag string, status models.EquipmentStatus) error

	// TransferCustody updates the current custodian only when the expected
	// holder still matches, so two concurrent transfers cannot both apply.
	TransferCustody(ctx context.Context, tag, fromCustodian, toCustodian string) (*models.Equipment, error)
	AppendTransfer(ctx context.Context, transfer models.CustodyTransfer) error
	ListTransfers(ctx context.Context, tag string) ([]models.CustodyTransfer, error)

	AddCertificate(ctx context.Context, cert models.Certificate) error
	ListCertificates(ctx context.Context, tag string) ([]models.Certificate, error)
	ListExpiringCertificates(ctx context.Context, before time.Time) ([]models.Certificate, error)
}

type assetRepository struct {
	equipment *mongo.Collection
	certs     *mongo.Collection
	transfers *mongo.Collection
}

// NewAssetRepository builds the MongoDB-backed asset repository.
func NewAssetRepository(store *Store) AssetRepository {
	return &assetRepository{
		equipment: store.db.Collection(collEquipment),
		certs:     store.db.Collection(collCertificates),
		transfers: store.db.Collection(collTransfers),
	}
}

func (r *assetRepository) CreateEquipment(ctx context.Context, eq models.Equipment) error {
	if _, err := r.equipment.InsertOne(ctx, eq); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateCode
		}
		return fmt.Errorf("insert equipment %s: %w", eq.Tag, err)
	}
	return nil
}

func (r *assetRepository) GetEquipment(ctx context.Context, tag string) (*models.Equipment, error) {
	var eq models.Equipment
	err := r.equipment.FindOne(ctx, bson.M{"tag": tag}).Decode(&eq)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find equipment %s: %w", tag, err)
	}
	return &eq, nil
}

func (r *assetRepository) ListEquipment(ctx context.Context, category string) ([]models.Equipment, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	cursor, err := r.equipment.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "tag", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}

	var items []models.Equipment
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode equipment: %w", err)
	}
	return items, nil
}

func (r *assetRepository) UpdateEquipmentStatus(ctx context.Context, tag string, status models.EquipmentStatus) error {
	res, err := r.equipment.UpdateOne(ctx,
		bson.M{"tag": tag},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("update equipment status %s: %w", tag, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *assetRepository) TransferCustody(ctx context.Context, tag, fromCustodian, toCustodian string) (*models.Equipment, error) {
	filter := bson.M{"tag": tag, "custodian": fromCustodian}
	update := bson.M{"$set": bson.M{"custodian": toCustodian, "updated_at": time.Now().UTC()}}

	var eq models.Equipment
	err := r.equipment.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&eq)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if lookupErr := r.equipment.FindOne(ctx, bson.M{"tag": tag}).Err(); errors.Is(lookupErr, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		} else if lookupErr != nil {
			return nil, fmt.Errorf("lookup equipment %s: %w", tag, lookupErr)
		}
		return nil, fmt.Errorf("equipment %s is no longer held by %s: %w", tag, fromCustodian, models.ErrCustodyMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("transfer custody of %s: %w", tag, err)
	}
	return &eq, nil
}

func (r *assetRepository) AppendTransfer(ctx context.Context, transfer models.CustodyTransfer) error {
	if _, err := r.transfers.InsertOne(ctx, transfer); err != nil {
		return fmt.Errorf("append custody transfer for %s: %w", transfer.EquipmentTag, err)
	}
	return nil
}

func (r *assetRepository) ListTransfers(ctx context.Context, tag string) ([]models.CustodyTransfer, error) {
	cursor, err := r.transfers.Find(ctx,
		bson.M{"equipment_tag": tag},
		options.Find().SetSort(bson.D{{Key: "transferred_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list transfers for %s: %w", tag, err)
	}

	var transfers []models.CustodyTransfer
	if err := cursor.All(ctx, &transfers); err != nil {
		return nil, fmt.Errorf("decode transfers for %s: %w", tag, err)
	}
	return transfers, nil
}

func (r *assetRepository) AddCertificate(ctx context.Context, cert models.Certificate) error {
	if _, err := r.certs.InsertOne(ctx, cert); err != nil {
		return fmt.Errorf("insert certificate %s: %w", cert.CertificateNo, err)
	}
	return nil
}

func (r *assetRepository) ListCertificates(ctx context.Context, tag string) ([]models.Certificate, error) {
	return r.listCerts(ctx, bson.M{"equipment_tag": tag})
}

func (r *assetRepository) ListExpiringCertificates(ctx context.Context, before time.Time) ([]models.Certificate, error) {
	return r.listCerts(ctx, bson.M{"expires_at": bson.M{"$lte": before}})
}

func (r *assetRepository) listCerts(ctx context.Context, filter bson.M) ([]models.Certificate, error) {
	cursor, err := r.certs.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "expires_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}

	var certs []models.Certificate
	if err := cursor.All(ctx, &certs); err != nil {
		return nil, fmt.Errorf("decode certificates: %w", err)
	}
	return certs, nil
}
