package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tidianess/assetflow/internal/domain/models"
)

// TransactionRepository persists the append-only ledger. Transactions are
// never updated or deleted.
type TransactionRepository interface {
	Append(ctx context.Context, tx models.Transaction) error

	// ListByItem returns the full history for one item ordered by timestamp
	// then insertion order, the order Summarize expects.
	ListByItem(ctx context.Context, itemCode string) ([]models.Transaction, error)

	// SummarizeAll derives the per-item ledger summary in a single grouped
	// aggregation pushed into the store.
	SummarizeAll(ctx context.Context) ([]models.StockSummary, error)
}

type transactionRepository struct {
	coll *mongo.Collection
}

// NewTransactionRepository builds the MongoDB-backed ledger repository.
func NewTransactionRepository(store *Store) TransactionRepository {
	return &transactionRepository{coll: store.db.Collection(collTransactions)}
}

func (r *transactionRepository) Append(ctx context.Context, tx models.Transaction) error {
	if _, err := r.coll.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("append transaction for %s: %w", tx.ItemCode, err)
	}
	return nil
}

func (r *transactionRepository) ListByItem(ctx context.Context, itemCode string) ([]models.Transaction, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"item_code": itemCode},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w", itemCode, err)
	}

	var txs []models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("decode transactions for %s: %w", itemCode, err)
	}
	return txs, nil
}

func (r *transactionRepository) SummarizeAll(ctx context.Context) ([]models.StockSummary, error) {
	issueKinds := bson.A{string(models.TransactionIssue), string(models.TransactionBulkIssue)}

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$item_code"},
			{Key: "current_balance", Value: bson.D{{Key: "$last", Value: "$balance_after"}}},
			{Key: "initial_stock", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$type", string(models.TransactionInitial)}}},
				"$delta",
				0,
			}}}}}},
			{Key: "total_issued", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{"$type", issueKinds}}},
				bson.D{{Key: "$abs", Value: "$delta"}},
				0,
			}}}}}},
			{Key: "last_issue_date", Value: bson.D{{Key: "$max", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{"$type", issueKinds}}},
				"$timestamp",
				nil,
			}}}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate stock summaries: %w", err)
	}

	var summaries []models.StockSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode stock summaries: %w", err)
	}
	return summaries, nil
}
