// Package reporting rebuilds cached balances from the transaction ledger and
// produces the daily stock snapshot.
package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tidianess/assetflow/internal/domain/ledger"
	"github.com/tidianess/assetflow/internal/domain/models"
	"github.com/tidianess/assetflow/internal/repository/mongodb"
	"github.com/tidianess/assetflow/internal/repository/sheets"
	"github.com/tidianess/assetflow/pkg/clients/notify"
)

// Service runs ledger reconciliation and daily reporting. The sheets mirror
// and the notifier are optional and may be nil.
type Service struct {
	items    mongodb.StockRepository
	txs      mongodb.TransactionRepository
	reports  mongodb.ReportRepository
	mirror   sheets.Repository
	notifier notify.Client
	logger   *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(items mongodb.StockRepository, txs mongodb.TransactionRepository, reports mongodb.ReportRepository, mirror sheets.Repository, notifier notify.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{items: items, txs: txs, reports: reports, mirror: mirror, notifier: notifier, logger: logger}
}

// Reconcile replays every item's ledger and overwrites cached balances that
// have drifted from the latest snapshot. The ledger is the source of truth;
// the counter on the master record is a derived cache. Returns the set of item
// codes that were corrected.
func (s *Service) Reconcile(ctx context.Context) ([]string, error) {
	items, err := s.items.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list items for reconciliation: %w", err)
	}

	var corrected []string
	for _, item := range items {
		txs, err := s.txs.ListByItem(ctx, item.Code)
		if err != nil {
			return corrected, fmt.Errorf("load ledger for %s: %w", item.Code, err)
		}
		if len(txs) == 0 {
			continue
		}

		summary := ledger.Summarize(txs)
		if summary.CurrentBalance == item.Quantity {
			continue
		}

		s.logger.Warn("cached balance drifted from ledger",
			zap.String("code", item.Code),
			zap.Float64("cached", item.Quantity),
			zap.Float64("ledger", summary.CurrentBalance))

		if err := s.items.SetQuantity(ctx, item.Code, summary.CurrentBalance); err != nil {
			return corrected, fmt.Errorf("rebuild balance for %s: %w", item.Code, err)
		}
		corrected = append(corrected, item.Code)

		if s.notifier != nil {
			event := notify.Event{
				Kind:     notify.EventReconciled,
				ItemCode: item.Code,
				Balance:  summary.CurrentBalance,
				Message:  fmt.Sprintf("%s balance rebuilt from ledger: %g -> %g", item.Code, item.Quantity, summary.CurrentBalance),
			}
			if err := s.notifier.SendEvent(ctx, event); err != nil {
				s.logger.Warn("reconciliation notification failed", zap.Error(err))
			}
		}
	}

	return corrected, nil
}

// RunDaily reconciles, snapshots every item's ledger summary, stores the
// report and mirrors it to the configured spreadsheet.
func (s *Service) RunDaily(ctx context.Context) (*models.DailyStockReport, error) {
	corrected, err := s.Reconcile(ctx)
	if err != nil {
		return nil, err
	}
	correctedSet := make(map[string]bool, len(corrected))
	for _, code := range corrected {
		correctedSet[code] = true
	}

	items, err := s.items.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list items for report: %w", err)
	}

	derived, err := s.txs.SummarizeAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("summarize ledger: %w", err)
	}
	byCode := make(map[string]models.StockSummary, len(derived))
	for _, d := range derived {
		byCode[d.ItemCode] = d
	}

	now := time.Now().UTC()
	report := models.DailyStockReport{
		Date:      now.Truncate(24 * time.Hour),
		Mismatch:  len(corrected),
		CreatedAt: now,
	}
	for _, item := range items {
		summary := byCode[item.Code]
		report.Items = append(report.Items, models.StockReportEntry{
			ItemCode:       item.Code,
			Name:           item.Name,
			CurrentBalance: summary.CurrentBalance,
			TotalIssued:    summary.TotalIssued,
			PendingQty:     item.PendingRequests,
			Reconciled:     correctedSet[item.Code],
		})
	}

	if err := s.reports.SaveDailyReport(ctx, report); err != nil {
		return nil, err
	}

	if s.mirror != nil {
		if err := s.mirror.AppendDailyReport(ctx, report); err != nil {
			// The stored report is authoritative; a failed mirror is logged
			// and not retried.
			s.logger.Error("daily report not mirrored to sheet", zap.Error(err))
		}
	}

	s.logger.Info("daily stock report stored",
		zap.Int("items", len(report.Items)),
		zap.Int("mismatch", report.Mismatch))
	return &report, nil
}
