package dto

// QuoteResponseInput is the tagged client response to a sent quote.
// Action selects the variant; the other fields belong to one variant
// each and are ignored otherwise.
type QuoteResponseInput struct {
	Action        string `json:"action" binding:"required" validate:"required,is-quote-response-action"`
	SignatureName string `json:"signature_name,omitempty"` // accepted
	Reason        string `json:"reason,omitempty"`         // declined
	Message       string `json:"message,omitempty"`        // revision_requested
}

// RespondToQuoteResult carries the derived job id; nil for the
// declined and revision branches.
type RespondToQuoteResult struct {
	JobID *string `json:"job_id"`
}

type SendQuoteRequest struct {
	QuoteID string `json:"quote_id" binding:"required" validate:"required,uuid"`
}

type RespondToQuoteRequest struct {
	QuoteID  string             `json:"quote_id" binding:"required" validate:"required,uuid"`
	Response QuoteResponseInput `json:"response" binding:"required"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" binding:"required" validate:"required,is-job-status"`
}

type DeclineRequestRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=2000"`
}
