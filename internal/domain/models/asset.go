package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EquipmentStatus enumerates registry states for equipment and fixed assets.
type EquipmentStatus string

const (
	EquipmentInService    EquipmentStatus = "in_service"
	EquipmentUnderRepair  EquipmentStatus = "under_repair"
	EquipmentDecommission EquipmentStatus = "decommissioned"
)

// Equipment is a registered asset identified by a unique tag.
type Equipment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Tag       string             `bson:"tag" json:"tag"`
	Name      string             `bson:"name" json:"name"`
	Category  string             `bson:"category" json:"category"`
	Location  string             `bson:"location,omitempty" json:"location,omitempty"`
	Custodian string             `bson:"custodian" json:"custodian"`
	Status    EquipmentStatus    `bson:"status" json:"status"`
	CreatedBy string             `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Certificate is a calibration certificate attached to a piece of equipment.
type Certificate struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EquipmentTag  string             `bson:"equipment_tag" json:"equipment_tag"`
	CertificateNo string             `bson:"certificate_no" json:"certificate_no"`
	IssuedBy      string             `bson:"issued_by" json:"issued_by"`
	CalibratedAt  time.Time          `bson:"calibrated_at" json:"calibrated_at"`
	ExpiresAt     time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// CustodyTransfer is an append-only record of equipment changing hands.
type CustodyTransfer struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EquipmentTag  string             `bson:"equipment_tag" json:"equipment_tag"`
	FromCustodian string             `bson:"from_custodian" json:"from_custodian"`
	ToCustodian   string             `bson:"to_custodian" json:"to_custodian"`
	Actor         string             `bson:"actor" json:"actor"`
	TransferredAt time.Time          `bson:"transferred_at" json:"transferred_at"`
	Remarks       string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
}
