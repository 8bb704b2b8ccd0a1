package models

// User roles
type UserRole string

const (
	UserRoleStaff  UserRole = "staff"
	UserRoleClient UserRole = "client"
)

// Request lifecycle. A request leaves pending either because a quote
// was sent for it or because staff declined it outright. Accepted and
// declined are terminal.
const (
	RequestStatusPending    = "pending"
	RequestStatusQuoteReady = "quote_ready"
	RequestStatusAccepted   = "accepted"
	RequestStatusDeclined   = "declined"
)

// Quote lifecycle. Only sent accepts a client response; accepted and
// declined are terminal; revision_requested loops back to sent after
// staff edits.
const (
	QuoteStatusDraft             = "draft"
	QuoteStatusSent              = "sent"
	QuoteStatusAccepted          = "accepted"
	QuoteStatusDeclined          = "declined"
	QuoteStatusRevisionRequested = "revision_requested"
)

// Discount kinds as entered by staff. Percentages are normalized to an
// amount whenever totals are recomputed.
const (
	DiscountTypeAmount     = "amount"
	DiscountTypePercentage = "percentage"
)

// Job lifecycle, strictly forward. pending_cod is a resting branch
// between processing and complete, never a creation state.
const (
	JobStatusPickupScheduled = "pickup_scheduled"
	JobStatusPickupComplete  = "pickup_complete"
	JobStatusProcessing      = "processing"
	JobStatusPendingCOD      = "pending_cod"
	JobStatusComplete        = "complete"
)

// JobStatusTransitions is the authoritative forward-only transition
// table. A status absent from the map is terminal.
var JobStatusTransitions = map[string][]string{
	JobStatusPickupScheduled: {JobStatusPickupComplete},
	JobStatusPickupComplete:  {JobStatusProcessing},
	JobStatusProcessing:      {JobStatusPendingCOD, JobStatusComplete},
	JobStatusPendingCOD:      {JobStatusComplete},
}

// CanTransitionJob reports whether moving a job from one status to
// another is legal.
func CanTransitionJob(from, to string) bool {
	for _, allowed := range JobStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Timeline event kinds
const (
	TimelineEventCreated      = "created"
	TimelineEventStatusChange = "status_change"
	TimelineEventDeclined     = "declined"
	TimelineEventNote         = "note"
)

// Timeline entity types
const (
	EntityTypeRequest = "request"
	EntityTypeQuote   = "quote"
	EntityTypeJob     = "job"
)

// Notification priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)
