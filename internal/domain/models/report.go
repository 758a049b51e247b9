package models

import "time"

// DailyStockReport is the per-day snapshot stored by the reporting job.
type DailyStockReport struct {
	Date      time.Time          `bson:"date" json:"date"`
	Items     []StockReportEntry `bson:"items" json:"items"`
	Mismatch  int                `bson:"mismatch" json:"mismatch"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// StockReportEntry is one item's line in the daily report.
type StockReportEntry struct {
	ItemCode       string  `bson:"item_code" json:"item_code"`
	Name           string  `bson:"name" json:"name"`
	CurrentBalance float64 `bson:"current_balance" json:"current_balance"`
	TotalIssued    float64 `bson:"total_issued" json:"total_issued"`
	PendingQty     float64 `bson:"pending_qty" json:"pending_qty"`
	Reconciled     bool    `bson:"reconciled" json:"reconciled"`
}
