package models

import (
	"gorm.io/datatypes"
)

// Request is a customer-submitted ask for pickup or drop-off service.
// Once a quote exists the request is mutated only by the workflow
// engine; requests are never deleted (audit retention).
type Request struct {
	BaseModel
	CompanyID   string         `gorm:"type:uuid;not null;index" json:"company_id"`
	Company     *Company       `gorm:"foreignKey:CompanyID" json:"-"`
	SubmittedBy string         `gorm:"type:uuid;not null" json:"submitted_by"`
	FormType    string         `gorm:"not null" json:"form_type"` // "pickup", "dropoff"
	FormData    datatypes.JSON `gorm:"type:jsonb" json:"form_data"`
	Status      string         `gorm:"not null;default:pending;index" json:"status"`
	Notes       string         `json:"notes"`
}
