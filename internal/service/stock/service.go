// Package stock implements the issuance recorder and the stock query surface.
// Availability checks and counter mutations are pushed into the store as
// conditional updates, so two concurrent issuances of the same item cannot
// both pass the check and overdraw the balance.
package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tidianess/assetflow/internal/domain/ledger"
	"github.com/tidianess/assetflow/internal/domain/models"
	"github.com/tidianess/assetflow/internal/repository/mongodb"
	"github.com/tidianess/assetflow/pkg/clients/notify"
)

// Service coordinates stock master records, the transaction ledger and the
// request lifecycle.
type Service struct {
	items    mongodb.StockRepository
	txs      mongodb.TransactionRepository
	requests mongodb.RequestRepository
	notifier notify.Client
	logger   *zap.Logger
}

// NewService wires a new stock service instance. The notifier may be nil when
// no webhook is configured.
func NewService(items mongodb.StockRepository, txs mongodb.TransactionRepository, requests mongodb.RequestRepository, notifier notify.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{items: items, txs: txs, requests: requests, notifier: notifier, logger: logger}
}

// CreateItemInput carries a new stock master record with its opening balance.
type CreateItemInput struct {
	Code          string
	Name          string
	Unit          string
	InitialQty    float64
	LowStockLevel float64
	Actor         string
}

// CreateItem registers an item and records the opening balance as the ledger's
// initial transaction.
func (s *Service) CreateItem(ctx context.Context, in CreateItemInput) (*models.StockItem, error) {
	in.Code = strings.TrimSpace(in.Code)
	if in.Code == "" {
		return nil, fmt.Errorf("item code is required: %w", models.ErrValidation)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("item name is required: %w", models.ErrValidation)
	}
	if in.InitialQty < 0 {
		return nil, fmt.Errorf("initial quantity must not be negative: %w", models.ErrValidation)
	}

	now := time.Now().UTC()
	item := models.StockItem{
		Code:          in.Code,
		Name:          in.Name,
		Unit:          in.Unit,
		Quantity:      in.InitialQty,
		Active:        true,
		LowStockLevel: in.LowStockLevel,
		CreatedBy:     in.Actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	tx := models.Transaction{
		ItemCode:     in.Code,
		Type:         models.TransactionInitial,
		Delta:        in.InitialQty,
		BalanceAfter: in.InitialQty,
		Actor:        in.Actor,
		Timestamp:    now,
	}
	if err := s.txs.Append(ctx, tx); err != nil {
		// The master record exists without its opening entry; reconciliation
		// rebuilds from the ledger, so surface the fault rather than hide it.
		s.logger.Error("opening transaction not recorded", zap.String("code", in.Code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("stock item created",
		zap.String("code", in.Code),
		zap.Float64("initial_qty", in.InitialQty))
	return &item, nil
}

// ListItems returns master records, excluding retired items unless asked.
func (s *Service) ListItems(ctx context.Context, includeRetired bool) ([]models.StockItem, error) {
	return s.items.List(ctx, includeRetired)
}

// GetItem returns one master record by code.
func (s *Service) GetItem(ctx context.Context, code string) (*models.StockItem, error) {
	return s.items.GetByCode(ctx, code)
}

// RetireItem logically removes a PPE master record. The item and its ledger
// remain queryable.
func (s *Service) RetireItem(ctx context.Context, code string) error {
	return s.items.Retire(ctx, code)
}

// IssueInput describes one issuance. RequestRef is set when the issuance
// fulfills a pending request; Qty may then be omitted and defaults to the
// requested amount.
type IssueInput struct {
	ItemCode   string
	Qty        float64
	RequestRef string
	Bulk       bool
	Actor      string
	Note       string
}

// Issue records an issuance: the quantity decrement is one conditional update
// (decrement only if enough stock), the fulfilled request (if any) moves to its
// terminal state, and an immutable ledger entry captures the resulting balance.
func (s *Service) Issue(ctx context.Context, in IssueInput) (*models.Transaction, error) {
	in.ItemCode = strings.TrimSpace(in.ItemCode)
	if in.ItemCode == "" {
		return nil, fmt.Errorf("item code is required: %w", models.ErrValidation)
	}

	var fulfilled *models.Request
	if in.RequestRef != "" {
		req, err := s.requests.GetByReference(ctx, in.RequestRef)
		if err != nil {
			return nil, err
		}
		if req.Status != models.RequestPending {
			return nil, models.ErrRequestClosed
		}
		if req.ItemCode != in.ItemCode {
			return nil, fmt.Errorf("request %s is for item %s: %w", in.RequestRef, req.ItemCode, models.ErrValidation)
		}
		if in.Qty == 0 {
			in.Qty = req.RequestedQty
		} else if in.Qty != req.RequestedQty {
			return nil, fmt.Errorf("issued quantity must match the requested amount: %w", models.ErrValidation)
		}
		fulfilled = req
	}

	if in.Qty <= 0 {
		return nil, fmt.Errorf("issued quantity must be positive: %w", models.ErrValidation)
	}

	item, err := s.items.DecrementIfAvailable(ctx, in.ItemCode, in.Qty)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if fulfilled != nil {
		if _, err := s.requests.Close(ctx, fulfilled.Reference, models.RequestIssued, in.Actor, now); err != nil {
			s.logger.Error("request not closed after issuance; ledger replay will reconcile",
				zap.String("request", fulfilled.Reference), zap.Error(err))
			return nil, err
		}
		if err := s.items.ReleasePending(ctx, in.ItemCode, in.Qty); err != nil {
			s.logger.Error("pending counter not released after issuance",
				zap.String("code", in.ItemCode), zap.Error(err))
			return nil, err
		}
	}

	kind := models.TransactionIssue
	if in.Bulk {
		kind = models.TransactionBulkIssue
	}
	tx := models.Transaction{
		ItemCode:     in.ItemCode,
		Type:         kind,
		Delta:        -in.Qty,
		BalanceAfter: item.Quantity,
		RequestRef:   in.RequestRef,
		Note:         in.Note,
		Actor:        in.Actor,
		Timestamp:    now,
	}
	if err := s.txs.Append(ctx, tx); err != nil {
		return nil, err
	}

	s.notifyIssued(ctx, item, in)

	return &tx, nil
}

// Return books returned stock back into the item's balance.
func (s *Service) Return(ctx context.Context, code string, qty float64, actor, note string) (*models.Transaction, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("returned quantity must be positive: %w", models.ErrValidation)
	}

	item, err := s.items.IncrementQuantity(ctx, code, qty)
	if err != nil {
		return nil, err
	}

	tx := models.Transaction{
		ItemCode:     code,
		Type:         models.TransactionReturn,
		Delta:        qty,
		BalanceAfter: item.Quantity,
		Note:         note,
		Actor:        actor,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.txs.Append(ctx, tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Adjust books an arbitrary signed correction. Negative deltas are still
// guarded against driving the balance below zero.
func (s *Service) Adjust(ctx context.Context, code string, delta float64, actor, note string) (*models.Transaction, error) {
	if delta == 0 {
		return nil, fmt.Errorf("adjustment delta must not be zero: %w", models.ErrValidation)
	}

	item, err := s.items.IncrementQuantity(ctx, code, delta)
	if err != nil {
		return nil, err
	}

	tx := models.Transaction{
		ItemCode:     code,
		Type:         models.TransactionAdjustment,
		Delta:        delta,
		BalanceAfter: item.Quantity,
		Note:         note,
		Actor:        actor,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.txs.Append(ctx, tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// CreateRequest reserves quantity for a pending claim without deducting it.
// The reservation fails when the requested amount exceeds what is on hand.
func (s *Service) CreateRequest(ctx context.Context, code string, qty float64, requestedBy, purpose string) (*models.Request, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("requested quantity must be positive: %w", models.ErrValidation)
	}

	if _, err := s.items.ReservePending(ctx, code, qty); err != nil {
		return nil, err
	}

	req := models.Request{
		Reference:    uuid.NewString(),
		ItemCode:     code,
		RequestedQty: qty,
		Status:       models.RequestPending,
		RequestedBy:  requestedBy,
		Purpose:      purpose,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		// Reservation without a request record; release so the counter does
		// not leak.
		if relErr := s.items.ReleasePending(ctx, code, qty); relErr != nil {
			s.logger.Error("pending counter leaked after failed request insert",
				zap.String("code", code), zap.Error(relErr))
		}
		return nil, err
	}

	return &req, nil
}

// RejectRequest closes a pending request and releases its reservation.
func (s *Service) RejectRequest(ctx context.Context, reference, actor string) (*models.Request, error) {
	req, err := s.requests.Close(ctx, reference, models.RequestRejected, actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.items.ReleasePending(ctx, req.ItemCode, req.RequestedQty); err != nil {
		s.logger.Error("pending counter not released after rejection",
			zap.String("code", req.ItemCode), zap.Error(err))
		return nil, err
	}

	return req, nil
}

// ListRequests returns requests filtered by status when one is given.
func (s *Service) ListRequests(ctx context.Context, status models.RequestStatus) ([]models.Request, error) {
	if status == "" {
		return s.requests.ListByStatus(ctx, models.RequestPending)
	}
	return s.requests.ListByStatus(ctx, status)
}

// History returns one item's full ordered ledger.
func (s *Service) History(ctx context.Context, code string) ([]models.Transaction, error) {
	if _, err := s.items.GetByCode(ctx, code); err != nil {
		return nil, err
	}
	return s.txs.ListByItem(ctx, code)
}

// Summary derives one item's ledger summary. A missing master record is a
// not-found condition; an item with no transactions reports zeros.
func (s *Service) Summary(ctx context.Context, code string) (*models.StockSummary, error) {
	item, err := s.items.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	txs, err := s.txs.ListByItem(ctx, code)
	if err != nil {
		return nil, err
	}

	derived := ledger.Summarize(txs)
	return &models.StockSummary{
		ItemCode:       item.Code,
		Name:           item.Name,
		Unit:           item.Unit,
		CurrentBalance: derived.CurrentBalance,
		InitialStock:   derived.InitialStock,
		TotalIssued:    derived.TotalIssued,
		LastIssueDate:  derived.LastIssueDate,
	}, nil
}

// SummaryAll returns a summary per master item using one grouped aggregation.
// Items absent from the ledger are included with zero balances.
func (s *Service) SummaryAll(ctx context.Context) ([]models.StockSummary, error) {
	items, err := s.items.List(ctx, true)
	if err != nil {
		return nil, err
	}

	derived, err := s.txs.SummarizeAll(ctx)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]models.StockSummary, len(derived))
	for _, d := range derived {
		byCode[d.ItemCode] = d
	}

	summaries := make([]models.StockSummary, 0, len(items))
	for _, item := range items {
		summary := byCode[item.Code]
		summary.ItemCode = item.Code
		summary.Name = item.Name
		summary.Unit = item.Unit
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *Service) notifyIssued(ctx context.Context, item *models.StockItem, in IssueInput) {
	if s.notifier == nil {
		return
	}

	event := notify.Event{
		Kind:     notify.EventIssuanceRecorded,
		ItemCode: item.Code,
		Quantity: in.Qty,
		Balance:  item.Quantity,
		Actor:    in.Actor,
		Message:  fmt.Sprintf("%s: %g %s issued, %g remaining", item.Code, in.Qty, item.Unit, item.Quantity),
	}
	if err := s.notifier.SendEvent(ctx, event); err != nil {
		s.logger.Warn("issuance notification failed", zap.Error(err))
	}

	if item.LowStockLevel > 0 && item.Quantity <= item.LowStockLevel {
		low := notify.Event{
			Kind:     notify.EventLowStock,
			ItemCode: item.Code,
			Balance:  item.Quantity,
			Message:  fmt.Sprintf("%s is low on stock: %g %s left", item.Code, item.Quantity, item.Unit),
		}
		if err := s.notifier.SendEvent(ctx, low); err != nil {
			s.logger.Warn("low stock notification failed", zap.Error(err))
		}
	}
}
