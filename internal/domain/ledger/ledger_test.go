package ledger

import (
	"testing"
	"time"

	"github.com/tidianess/assetflow/internal/domain/models"
)

func tx(kind models.TransactionType, delta, balance float64, ts string) models.Transaction {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return models.Transaction{
		ItemCode:     "HELMET-01",
		Type:         kind,
		Delta:        delta,
		BalanceAfter: balance,
		Timestamp:    parsed,
	}
}

func TestSummarize_EmptyHistory(t *testing.T) {
	s := Summarize(nil)

	if s.CurrentBalance != 0 || s.InitialStock != 0 || s.TotalIssued != 0 {
		t.Fatalf("empty history: expected zero summary, got %+v", s)
	}
	if s.LastIssueDate != nil {
		t.Fatalf("empty history: expected nil LastIssueDate, got %v", s.LastIssueDate)
	}
}

func TestSummarize_FullHistory(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionInitial, 100, 100, "2024-01-01T08:00:00Z"),
		tx(models.TransactionIssue, -30, 70, "2024-01-05T08:00:00Z"),
		tx(models.TransactionReturn, 10, 80, "2024-01-10T08:00:00Z"),
		tx(models.TransactionBulkIssue, -25, 55, "2024-01-15T08:00:00Z"),
		tx(models.TransactionAdjustment, -5, 50, "2024-01-20T08:00:00Z"),
	}

	s := Summarize(txs)

	if s.CurrentBalance != 50 {
		t.Errorf("CurrentBalance = %v, want 50", s.CurrentBalance)
	}
	if s.InitialStock != 100 {
		t.Errorf("InitialStock = %v, want 100", s.InitialStock)
	}
	if s.TotalIssued != 55 {
		t.Errorf("TotalIssued = %v, want 55", s.TotalIssued)
	}
	want := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	if s.LastIssueDate == nil || !s.LastIssueDate.Equal(want) {
		t.Errorf("LastIssueDate = %v, want %v", s.LastIssueDate, want)
	}
}

func TestSummarize_BalanceIsSnapshotNotSum(t *testing.T) {
	// The last transaction's snapshot wins even when the deltas do not add up,
	// tolerating out-of-band corrections.
	txs := []models.Transaction{
		tx(models.TransactionInitial, 100, 100, "2024-01-01T08:00:00Z"),
		tx(models.TransactionAdjustment, 0, 93, "2024-02-01T08:00:00Z"),
	}

	if s := Summarize(txs); s.CurrentBalance != 93 {
		t.Fatalf("CurrentBalance = %v, want snapshot 93", s.CurrentBalance)
	}
}

func TestSummarize_TotalIssuedNonNegative(t *testing.T) {
	// Issuances are stored as negative deltas but reported as positive totals;
	// a positive delta mislabeled as an issue still counts by magnitude.
	txs := []models.Transaction{
		tx(models.TransactionIssue, -12, 88, "2024-01-02T08:00:00Z"),
		tx(models.TransactionIssue, 3, 91, "2024-01-03T08:00:00Z"),
	}

	s := Summarize(txs)
	if s.TotalIssued != 15 {
		t.Fatalf("TotalIssued = %v, want 15", s.TotalIssued)
	}
	if s.TotalIssued < 0 {
		t.Fatal("TotalIssued must never be negative")
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionInitial, 40, 40, "2024-03-01T08:00:00Z"),
		tx(models.TransactionIssue, -15, 25, "2024-03-04T08:00:00Z"),
	}

	first := Summarize(txs)
	second := Summarize(txs)

	if first.CurrentBalance != second.CurrentBalance ||
		first.InitialStock != second.InitialStock ||
		first.TotalIssued != second.TotalIssued {
		t.Fatalf("replay not idempotent: %+v vs %+v", first, second)
	}
}

func TestReplay_SumsDeltas(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionInitial, 100, 100, "2024-01-01T08:00:00Z"),
		tx(models.TransactionIssue, -30, 70, "2024-01-05T08:00:00Z"),
		tx(models.TransactionReturn, 5, 75, "2024-01-06T08:00:00Z"),
	}

	if got := Replay(txs); got != 75 {
		t.Fatalf("Replay = %v, want 75", got)
	}
}
