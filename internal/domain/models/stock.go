package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType enumerates the kinds of ledger events recorded against an item.
type TransactionType string

const (
	TransactionInitial    TransactionType = "initial"
	TransactionIssue      TransactionType = "issue"
	TransactionBulkIssue  TransactionType = "bulk_issue"
	TransactionReturn     TransactionType = "return"
	TransactionAdjustment TransactionType = "adjustment"
)

// IsIssue reports whether the transaction kind removes stock through an issuance.
func (t TransactionType) IsIssue() bool {
	return t == TransactionIssue || t == TransactionBulkIssue
}

// StockItem is the master record for an inventoriable item (PPE type or material).
// Quantity and PendingRequests are the only mutable counters; both stay >= 0 after
// every accepted operation.
type StockItem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code            string             `bson:"code" json:"code"`
	Name            string             `bson:"name" json:"name"`
	Unit            string             `bson:"unit" json:"unit"`
	Quantity        float64            `bson:"quantity" json:"quantity"`
	PendingRequests float64            `bson:"pending_requests" json:"pending_requests"`
	Active          bool               `bson:"active" json:"active"`
	LowStockLevel   float64            `bson:"low_stock_level,omitempty" json:"low_stock_level,omitempty"`
	CreatedBy       string             `bson:"created_by" json:"created_by"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// Transaction is one immutable, timestamped ledger event against a StockItem.
// Issuances carry a negative Delta; BalanceAfter snapshots the item quantity
// immediately after the event was applied.
type Transaction struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemCode     string             `bson:"item_code" json:"item_code"`
	Type         TransactionType    `bson:"type" json:"type"`
	Delta        float64            `bson:"delta" json:"delta"`
	BalanceAfter float64            `bson:"balance_after" json:"balance_after"`
	RequestRef   string             `bson:"request_ref,omitempty" json:"request_ref,omitempty"`
	Note         string             `bson:"note,omitempty" json:"note,omitempty"`
	Actor        string             `bson:"actor" json:"actor"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
}

// StockSummary is the derived view of one item's ledger, served by the summary
// endpoints and used by the reconciliation job.
type StockSummary struct {
	ItemCode       string     `bson:"_id" json:"item_code"`
	Name           string     `bson:"-" json:"name,omitempty"`
	Unit           string     `bson:"-" json:"unit,omitempty"`
	CurrentBalance float64    `bson:"current_balance" json:"current_balance"`
	InitialStock   float64    `bson:"initial_stock" json:"initial_stock"`
	TotalIssued    float64    `bson:"total_issued" json:"total_issued"`
	LastIssueDate  *time.Time `bson:"last_issue_date,omitempty" json:"last_issue_date,omitempty"`
}
