package dto

import (
	"time"

	"itad_backend/internal/models"
)

type LineItemInput struct {
	Description string  `json:"description" binding:"required" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" binding:"required" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

type CreateQuoteRequest struct {
	RequestID     string          `json:"request_id" binding:"required" validate:"required,uuid"`
	LineItems     []LineItemInput `json:"line_items" binding:"required" validate:"required,min=1,dive"`
	DiscountType  string          `json:"discount_type,omitempty" validate:"omitempty,is-discount-type"`
	DiscountValue float64         `json:"discount_value,omitempty" validate:"omitempty,gte=0"`
	ValidUntil    *time.Time      `json:"valid_until,omitempty"`
	Terms         string          `json:"terms,omitempty" validate:"omitempty,max=5000"`
}

// UpdateQuoteRequest edits a draft or revision_requested quote. Line
// items, when present, replace the existing set wholesale.
type UpdateQuoteRequest struct {
	LineItems     []LineItemInput `json:"line_items,omitempty" validate:"omitempty,min=1,dive"`
	DiscountType  *string         `json:"discount_type,omitempty" validate:"omitempty,is-discount-type"`
	DiscountValue *float64        `json:"discount_value,omitempty" validate:"omitempty,gte=0"`
	ValidUntil    *time.Time      `json:"valid_until,omitempty"`
	Terms         *string         `json:"terms,omitempty" validate:"omitempty,max=5000"`
}

type QuoteResponse struct {
	ID             string                 `json:"id"`
	QuoteNumber    string                 `json:"quote_number"`
	RequestID      string                 `json:"request_id"`
	CompanyID      string                 `json:"company_id"`
	Status         string                 `json:"status"`
	Subtotal       float64                `json:"subtotal"`
	DiscountType   string                 `json:"discount_type"`
	DiscountValue  float64                `json:"discount_value"`
	DiscountAmount float64                `json:"discount_amount"`
	Total          float64                `json:"total"`
	ValidUntil     *time.Time             `json:"valid_until,omitempty"`
	Terms          string                 `json:"terms,omitempty"`
	SentAt         *time.Time             `json:"sent_at,omitempty"`
	AcceptedAt     *time.Time             `json:"accepted_at,omitempty"`
	SignatureName  string                 `json:"signature_name,omitempty"`
	DeclineReason  string                 `json:"decline_reason,omitempty"`
	RevisionMsg    string                 `json:"revision_message,omitempty"`
	LineItems      []models.QuoteLineItem `json:"line_items"`
	CreatedAt      time.Time              `json:"created_at"`
}

func BuildQuoteResponse(quote *models.Quote) *QuoteResponse {
	return &QuoteResponse{
		ID:             quote.ID,
		QuoteNumber:    quote.QuoteNumber,
		RequestID:      quote.RequestID,
		CompanyID:      quote.CompanyID,
		Status:         quote.Status,
		Subtotal:       quote.Subtotal,
		DiscountType:   quote.DiscountType,
		DiscountValue:  quote.DiscountValue,
		DiscountAmount: quote.DiscountAmount,
		Total:          quote.Total,
		ValidUntil:     quote.ValidUntil,
		Terms:          quote.Terms,
		SentAt:         quote.SentAt,
		AcceptedAt:     quote.AcceptedAt,
		SignatureName:  quote.SignatureName,
		DeclineReason:  quote.DeclineReason,
		RevisionMsg:    quote.RevisionMessage,
		LineItems:      quote.LineItems,
		CreatedAt:      quote.CreatedAt,
	}
}
