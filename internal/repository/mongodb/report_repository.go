package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tidianess/assetflow/internal/domain/models"
)

// ReportRepository stores the daily stock snapshots produced by the scheduler.
type ReportRepository interface {
	SaveDailyReport(ctx context.Context, report models.DailyStockReport) error
}

type reportRepository struct {
	coll *mongo.Collection
}

// NewReportRepository builds the MongoDB-backed report repository.
func NewReportRepository(store *Store) ReportRepository {
	return &reportRepository{coll: store.db.Collection(collReports)}
}

func (r *reportRepository) SaveDailyReport(ctx context.Context, report models.DailyStockReport) error {
	if _, err := r.coll.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}
