package model

import "time"

type Listing struct {
	ID         string     `json:"id"`
	CropName   string     `json:"crop_name"`
	Quantity   string     `json:"quantity"`
	Price      float64    `json:"price"`
	Location   string     `json:"location"`
	Contact    string     `json:"contact"`
	OwnerID    string     `json:"owner_id"`
	CreatedAt  time.Time  `json:"created_at"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	VerifiedBy *string    `json:"verified_by,omitempty"`
}

// EquipmentRequest is a certification request for farm equipment, reviewed
// by superusers before the equipment is marked compliant.
type EquipmentRequest struct {
	ID             string     `json:"id"`
	EquipmentID    string     `json:"equipment_id"`
	EquipmentName  string     `json:"equipment_name"`
	Brand          string     `json:"brand"`
	Origin         string     `json:"origin"`
	ComplianceInfo string     `json:"compliance_info"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	Verified       bool       `json:"verified"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	VerifiedBy     *string    `json:"verified_by,omitempty"`
}
