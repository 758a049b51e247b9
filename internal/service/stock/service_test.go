package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tidianess/assetflow/internal/domain/models"
)

type fakeItems struct {
	items map[string]*models.StockItem
}

func newFakeItems(items ...models.StockItem) *fakeItems {
	f := &fakeItems{items: make(map[string]*models.StockItem)}
	for i := range items {
		item := items[i]
		f.items[item.Code] = &item
	}
	return f
}

func (f *fakeItems) Create(_ context.Context, item models.StockItem) error {
	if _, ok := f.items[item.Code]; ok {
		return models.ErrDuplicateCode
	}
	f.items[item.Code] = &item
	return nil
}

func (f *fakeItems) GetByCode(_ context.Context, code string) (*models.StockItem, error) {
	item, ok := f.items[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeItems) List(_ context.Context, includeRetired bool) ([]models.StockItem, error) {
	var out []models.StockItem
	for _, item := range f.items {
		if includeRetired || item.Active {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeItems) Retire(_ context.Context, code string) error {
	item, ok := f.items[code]
	if !ok {
		return models.ErrNotFound
	}
	item.Active = false
	return nil
}

func (f *fakeItems) DecrementIfAvailable(_ context.Context, code string, qty float64) (*models.StockItem, error) {
	item, ok := f.items[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	if item.Quantity < qty {
		return nil, models.ErrInsufficientStock
	}
	item.Quantity -= qty
	copied := *item
	return &copied, nil
}

func (f *fakeItems) IncrementQuantity(_ context.Context, code string, delta float64) (*models.StockItem, error) {
	item, ok := f.items[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	if delta < 0 && item.Quantity < -delta {
		return nil, models.ErrInsufficientStock
	}
	item.Quantity += delta
	copied := *item
	return &copied, nil
}

func (f *fakeItems) ReservePending(_ context.Context, code string, qty float64) (*models.StockItem, error) {
	item, ok := f.items[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	if item.Quantity < qty {
		return nil, models.ErrInsufficientStock
	}
	item.PendingRequests += qty
	copied := *item
	return &copied, nil
}

func (f *fakeItems) ReleasePending(_ context.Context, code string, qty float64) error {
	item, ok := f.items[code]
	if !ok || item.PendingRequests < qty {
		return models.ErrNotFound
	}
	item.PendingRequests -= qty
	return nil
}

func (f *fakeItems) SetQuantity(_ context.Context, code string, qty float64) error {
	item, ok := f.items[code]
	if !ok {
		return models.ErrNotFound
	}
	item.Quantity = qty
	return nil
}

type fakeTxs struct {
	txs []models.Transaction
}

func (f *fakeTxs) Append(_ context.Context, tx models.Transaction) error {
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeTxs) ListByItem(_ context.Context, itemCode string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.ItemCode == itemCode {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTxs) SummarizeAll(context.Context) ([]models.StockSummary, error) {
	return nil, nil
}

type fakeRequests struct {
	reqs map[string]*models.Request
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{reqs: make(map[string]*models.Request)}
}

func (f *fakeRequests) Create(_ context.Context, req models.Request) error {
	f.reqs[req.Reference] = &req
	return nil
}

func (f *fakeRequests) GetByReference(_ context.Context, reference string) (*models.Request, error) {
	req, ok := f.reqs[reference]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (f *fakeRequests) ListByItem(_ context.Context, itemCode string) ([]models.Request, error) {
	var out []models.Request
	for _, req := range f.reqs {
		if req.ItemCode == itemCode {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRequests) ListByStatus(_ context.Context, status models.RequestStatus) ([]models.Request, error) {
	var out []models.Request
	for _, req := range f.reqs {
		if req.Status == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRequests) Close(_ context.Context, reference string, status models.RequestStatus, closedBy string, at time.Time) (*models.Request, error) {
	req, ok := f.reqs[reference]
	if !ok {
		return nil, models.ErrNotFound
	}
	if req.Status != models.RequestPending {
		return nil, models.ErrRequestClosed
	}
	req.Status = status
	req.ClosedBy = closedBy
	req.ClosedAt = &at
	copied := *req
	return &copied, nil
}

func newTestService(items *fakeItems, txs *fakeTxs, reqs *fakeRequests) *Service {
	return NewService(items, txs, reqs, nil, nil)
}

func helmetItem(qty float64) models.StockItem {
	return models.StockItem{Code: "HELMET-01", Name: "Safety Helmet", Unit: "pcs", Quantity: qty, Active: true}
}

func TestCreateItem_RecordsOpeningTransaction(t *testing.T) {
	items := newFakeItems()
	txs := &fakeTxs{}
	svc := newTestService(items, txs, newFakeRequests())

	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Code: "GLOVE-02", Name: "Work Gloves", Unit: "pair", InitialQty: 40, Actor: "storekeeper",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Quantity != 40 {
		t.Errorf("quantity = %v, want 40", item.Quantity)
	}

	if len(txs.txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs.txs))
	}
	tx := txs.txs[0]
	if tx.Type != models.TransactionInitial || tx.Delta != 40 || tx.BalanceAfter != 40 {
		t.Errorf("opening tx = %+v", tx)
	}
}

func TestCreateItem_RejectsMissingCode(t *testing.T) {
	svc := newTestService(newFakeItems(), &fakeTxs{}, newFakeRequests())

	_, err := svc.CreateItem(context.Background(), CreateItemInput{Name: "No Code"})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRequestThenIssueScenario(t *testing.T) {
	items := newFakeItems(helmetItem(100))
	txs := &fakeTxs{}
	reqs := newFakeRequests()
	svc := newTestService(items, txs, reqs)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, "HELMET-01", 30, "site-a", "new crew")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	after, _ := items.GetByCode(ctx, "HELMET-01")
	if after.PendingRequests != 30 || after.Quantity != 100 {
		t.Fatalf("after request: quantity=%v pending=%v, want 100/30", after.Quantity, after.PendingRequests)
	}

	tx, err := svc.Issue(ctx, IssueInput{ItemCode: "HELMET-01", RequestRef: req.Reference, Actor: "storekeeper"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	after, _ = items.GetByCode(ctx, "HELMET-01")
	if after.Quantity != 70 {
		t.Errorf("quantity = %v, want 70", after.Quantity)
	}
	if after.PendingRequests != 0 {
		t.Errorf("pendingRequests = %v, want 0", after.PendingRequests)
	}

	closed, _ := reqs.GetByReference(ctx, req.Reference)
	if closed.Status != models.RequestIssued {
		t.Errorf("request status = %s, want issued", closed.Status)
	}

	if tx.Delta != -30 || tx.BalanceAfter != 70 {
		t.Errorf("transaction delta=%v balanceAfter=%v, want -30/70", tx.Delta, tx.BalanceAfter)
	}
	if len(txs.txs) != 1 {
		t.Errorf("expected exactly 1 transaction, got %d", len(txs.txs))
	}
}

func TestIssue_RejectsOverdraw(t *testing.T) {
	items := newFakeItems(helmetItem(100))
	svc := newTestService(items, &fakeTxs{}, newFakeRequests())

	_, err := svc.Issue(context.Background(), IssueInput{ItemCode: "HELMET-01", Qty: 150, Actor: "storekeeper"})
	if !errors.Is(err, models.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	after, _ := items.GetByCode(context.Background(), "HELMET-01")
	if after.Quantity != 100 {
		t.Fatalf("quantity mutated on rejected issuance: %v", after.Quantity)
	}
}

func TestIssue_ExactDecrement(t *testing.T) {
	items := newFakeItems(helmetItem(55))
	svc := newTestService(items, &fakeTxs{}, newFakeRequests())

	tx, err := svc.Issue(context.Background(), IssueInput{ItemCode: "HELMET-01", Qty: 12, Actor: "storekeeper"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if tx.BalanceAfter != 43 {
		t.Errorf("balanceAfter = %v, want 43", tx.BalanceAfter)
	}
}

func TestIssue_UnknownItemIsNotFound(t *testing.T) {
	svc := newTestService(newFakeItems(), &fakeTxs{}, newFakeRequests())

	_, err := svc.Issue(context.Background(), IssueInput{ItemCode: "NOPE", Qty: 1})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIssue_ClosedRequestIsTerminal(t *testing.T) {
	items := newFakeItems(helmetItem(100))
	reqs := newFakeRequests()
	svc := newTestService(items, &fakeTxs{}, reqs)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, "HELMET-01", 10, "site-b", "")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if _, err := svc.Issue(ctx, IssueInput{ItemCode: "HELMET-01", RequestRef: req.Reference}); err != nil {
		t.Fatalf("first issue: %v", err)
	}

	_, err = svc.Issue(ctx, IssueInput{ItemCode: "HELMET-01", RequestRef: req.Reference})
	if !errors.Is(err, models.ErrRequestClosed) {
		t.Fatalf("expected ErrRequestClosed on second issue, got %v", err)
	}
}

func TestCreateRequest_RejectsOverdraw(t *testing.T) {
	items := newFakeItems(helmetItem(5))
	svc := newTestService(items, &fakeTxs{}, newFakeRequests())

	_, err := svc.CreateRequest(context.Background(), "HELMET-01", 6, "site-c", "")
	if !errors.Is(err, models.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	after, _ := items.GetByCode(context.Background(), "HELMET-01")
	if after.PendingRequests != 0 {
		t.Fatalf("pending mutated on rejected request: %v", after.PendingRequests)
	}
}

func TestRejectRequest_ReleasesReservation(t *testing.T) {
	items := newFakeItems(helmetItem(100))
	reqs := newFakeRequests()
	svc := newTestService(items, &fakeTxs{}, reqs)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, "HELMET-01", 25, "site-d", "")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	rejected, err := svc.RejectRequest(ctx, req.Reference, "supervisor")
	if err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}
	if rejected.Status != models.RequestRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}

	after, _ := items.GetByCode(ctx, "HELMET-01")
	if after.PendingRequests != 0 || after.Quantity != 100 {
		t.Errorf("after rejection: quantity=%v pending=%v, want 100/0", after.Quantity, after.PendingRequests)
	}
}

func TestReturnAndAdjust(t *testing.T) {
	items := newFakeItems(helmetItem(10))
	txs := &fakeTxs{}
	svc := newTestService(items, txs, newFakeRequests())
	ctx := context.Background()

	ret, err := svc.Return(ctx, "HELMET-01", 4, "storekeeper", "back from site")
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if ret.BalanceAfter != 14 || ret.Delta != 4 {
		t.Errorf("return tx = %+v", ret)
	}

	adj, err := svc.Adjust(ctx, "HELMET-01", -2, "storekeeper", "damaged")
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if adj.BalanceAfter != 12 || adj.Delta != -2 {
		t.Errorf("adjust tx = %+v", adj)
	}

	_, err = svc.Adjust(ctx, "HELMET-01", -100, "storekeeper", "bad count")
	if !errors.Is(err, models.ErrInsufficientStock) {
		t.Fatalf("expected guard on negative adjustment, got %v", err)
	}
}

func TestSummary_ZeroStockItemIsNotNotFound(t *testing.T) {
	items := newFakeItems(helmetItem(0))
	svc := newTestService(items, &fakeTxs{}, newFakeRequests())

	summary, err := svc.Summary(context.Background(), "HELMET-01")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.CurrentBalance != 0 || summary.TotalIssued != 0 {
		t.Errorf("summary = %+v, want zeros", summary)
	}

	_, err = svc.Summary(context.Background(), "MISSING")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("missing master record: expected ErrNotFound, got %v", err)
	}
}
