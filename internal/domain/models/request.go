package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus tracks the lifecycle of a stock request. Pending is the only
// non-terminal state: a request moves to issued or rejected exactly once.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestIssued   RequestStatus = "issued"
	RequestRejected RequestStatus = "rejected"
)

// Request is a claim against a StockItem's quantity. While pending, its amount
// is counted in the item's PendingRequests but not deducted from Quantity.
type Request struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Reference    string             `bson:"reference" json:"reference"`
	ItemCode     string             `bson:"item_code" json:"item_code"`
	RequestedQty float64            `bson:"requested_qty" json:"requested_qty"`
	Status       RequestStatus      `bson:"status" json:"status"`
	RequestedBy  string             `bson:"requested_by" json:"requested_by"`
	Purpose      string             `bson:"purpose,omitempty" json:"purpose,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	ClosedAt     *time.Time         `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
	ClosedBy     string             `bson:"closed_by,omitempty" json:"closed_by,omitempty"`
}
