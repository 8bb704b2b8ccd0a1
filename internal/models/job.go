package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job is the fulfillment record created the moment a quote is
// accepted. The unique index on QuoteID is the at-most-once anchor:
// two concurrent acceptance attempts cannot both create a job.
type Job struct {
	BaseModel
	JobNumber string `gorm:"uniqueIndex;not null" json:"job_number"`
	QuoteID   string `gorm:"type:uuid;not null;uniqueIndex" json:"quote_id"`
	RequestID string `gorm:"type:uuid;not null;index" json:"request_id"`
	CompanyID string `gorm:"type:uuid;not null;index" json:"company_id"`
	Status    string `gorm:"not null;default:pickup_scheduled;index" json:"status"`

	PickupDate   *time.Time `json:"pickup_date,omitempty"`
	PickupWindow string     `json:"pickup_window,omitempty"` // e.g. "09:00-12:00"
	Location     string     `json:"location,omitempty"`
	ContactName  string     `json:"contact_name,omitempty"`
	ContactPhone string     `json:"contact_phone,omitempty"`

	Equipment datatypes.JSON `gorm:"type:jsonb" json:"equipment,omitempty"`
	Services  datatypes.JSON `gorm:"type:jsonb" json:"services,omitempty"`
	Documents datatypes.JSON `gorm:"type:jsonb" json:"documents,omitempty"`
	Invoices  datatypes.JSON `gorm:"type:jsonb" json:"invoices,omitempty"`

	// Stage timestamps
	ScheduledAt         *time.Time `json:"scheduled_at,omitempty"`
	PickupCompleteAt    *time.Time `json:"pickup_complete_at,omitempty"`
	ProcessingStartedAt *time.Time `json:"processing_started_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}
