package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaterialStatus tracks a returned material through its warehouse lifecycle.
type MaterialStatus string

const (
	MaterialInStock  MaterialStatus = "in_stock"
	MaterialDisposed MaterialStatus = "disposed"
)

// Material is a returned/surplus item held for reissue or disposal. It extends
// the plain stock model with acquisition metadata used by the age-based
// valuation rule.
type Material struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code           string             `bson:"code" json:"code"`
	Description    string             `bson:"description" json:"description"`
	Unit           string             `bson:"unit" json:"unit"`
	SourceProject  string             `bson:"source_project,omitempty" json:"source_project,omitempty"`
	SourceUnitRate float64            `bson:"source_unit_rate" json:"source_unit_rate"`
	ReceivedDate   *time.Time         `bson:"received_date,omitempty" json:"received_date,omitempty"`
	Status         MaterialStatus     `bson:"status" json:"status"`
	DisposedAt     *time.Time         `bson:"disposed_at,omitempty" json:"disposed_at,omitempty"`
	DisposalValue  float64            `bson:"disposal_value,omitempty" json:"disposal_value,omitempty"`
	CreatedBy      string             `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// MaterialValuation pairs a material with its age-adjusted worth at a given
// event date. OriginalValue keeps the untouched source rate times quantity.
type MaterialValuation struct {
	Code          string    `json:"code"`
	Quantity      float64   `json:"quantity"`
	SourceRate    float64   `json:"source_rate"`
	AdjustedRate  float64   `json:"adjusted_rate"`
	OriginalValue float64   `json:"original_value"`
	ValueAtEvent  float64   `json:"value_at_event"`
	EventDate     time.Time `json:"event_date"`
}
