// Package ledger derives stock summaries by replaying an item's transaction
// history. The ledger is the source of truth for balances: the counters stored
// on StockItem are a cache rebuilt from here by the reconciliation job.
package ledger

import (
	"math"
	"time"

	"github.com/tidianess/assetflow/internal/domain/models"
)

// Summary is the result of replaying one item's ordered transaction history.
type Summary struct {
	CurrentBalance float64
	InitialStock   float64
	TotalIssued    float64
	LastIssueDate  *time.Time
}

// Summarize replays transactions ordered by timestamp (ties broken by insertion
// order, which callers preserve by sorting on timestamp then _id).
//
// CurrentBalance is the balance snapshot of the most recent transaction rather
// than a re-summation, so out-of-band corrections recorded as adjustments are
// honored. An empty history yields a zero summary.
func Summarize(txs []models.Transaction) Summary {
	var s Summary

	for i := range txs {
		tx := &txs[i]

		switch {
		case tx.Type == models.TransactionInitial:
			s.InitialStock = tx.Delta
		case tx.Type.IsIssue():
			s.TotalIssued += math.Abs(tx.Delta)
			ts := tx.Timestamp
			if s.LastIssueDate == nil || ts.After(*s.LastIssueDate) {
				s.LastIssueDate = &ts
			}
		}
	}

	if n := len(txs); n > 0 {
		s.CurrentBalance = txs[n-1].BalanceAfter
	}

	return s
}

// Replay recomputes the running balance by summing deltas from the opening
// entry forward. It is used by reconciliation to detect snapshots that have
// drifted from the event stream.
func Replay(txs []models.Transaction) float64 {
	var balance float64
	for i := range txs {
		balance += txs[i].Delta
	}
	return balance
}
