package models

import "time"

// Quote is a priced proposal tied to exactly one request. Line items
// are replaced wholesale on edit; totals are always recomputed from
// line items and discount at write time, client-supplied totals are
// never trusted.
type Quote struct {
	BaseModel
	QuoteNumber string   `gorm:"uniqueIndex;not null" json:"quote_number"`
	RequestID   string   `gorm:"type:uuid;not null;index" json:"request_id"`
	Request     *Request `gorm:"foreignKey:RequestID" json:"-"`
	CompanyID   string   `gorm:"type:uuid;not null;index" json:"company_id"`
	CreatedBy   string   `gorm:"type:uuid;not null" json:"created_by"`
	Status      string   `gorm:"not null;default:draft;index" json:"status"`

	Subtotal       float64 `json:"subtotal"`
	DiscountType   string  `gorm:"default:amount" json:"discount_type"`
	DiscountValue  float64 `json:"discount_value"`
	DiscountAmount float64 `json:"discount_amount"` // normalized, total = subtotal - discount_amount
	Total          float64 `json:"total"`

	ValidUntil *time.Time `json:"valid_until,omitempty"`
	Terms      string     `json:"terms"`

	SentAt          *time.Time `json:"sent_at,omitempty"`
	RevisionMessage string     `json:"revision_message,omitempty"`
	DeclineReason   string     `json:"decline_reason,omitempty"`

	AcceptedBy    *string    `gorm:"type:uuid" json:"accepted_by,omitempty"`
	SignatureName string     `json:"signature_name,omitempty"`
	AcceptedAt    *time.Time `json:"accepted_at,omitempty"`

	LineItems []QuoteLineItem `gorm:"foreignKey:QuoteID" json:"line_items"`
}

type QuoteLineItem struct {
	BaseModel
	QuoteID     string  `gorm:"type:uuid;not null;index" json:"quote_id"`
	Position    int     `gorm:"not null" json:"position"`
	Description string  `gorm:"not null" json:"description"`
	Quantity    float64 `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	LineTotal   float64 `gorm:"not null" json:"line_total"` // quantity * unit_price
}
