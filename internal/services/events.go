package services

import (
	"fmt"

	"itad_backend/internal/models"
)

// Workflow event types. Every type listed here must have a content
// template in resolveContent and a priority (explicit or the normal
// default); eventTypeList keeps the enumeration testable.
const (
	EventRequestSubmitted       = "request_submitted"
	EventQuoteSent              = "quote_sent"
	EventQuoteAccepted          = "quote_accepted"
	EventQuoteDeclined          = "quote_declined"
	EventQuoteRevisionRequested = "quote_revision_requested"
	EventPickupScheduled        = "pickup_scheduled"
	EventPickupComplete         = "pickup_complete"
	EventJobComplete            = "job_complete"
	EventInvoiceOverdue         = "invoice_overdue"
)

// EventTypes enumerates every declared workflow event type.
func EventTypes() []string {
	return []string{
		EventRequestSubmitted,
		EventQuoteSent,
		EventQuoteAccepted,
		EventQuoteDeclined,
		EventQuoteRevisionRequested,
		EventPickupScheduled,
		EventPickupComplete,
		EventJobComplete,
		EventInvoiceOverdue,
	}
}

// EventContext carries the values the content templates interpolate.
type EventContext struct {
	CompanyName   string
	QuoteNumber   string
	JobNumber     string
	InvoiceNumber string
	RequestID     string
	QuoteID       string
	JobID         string
	Reason        string
	Message       string
}

// NotificationContent is the rendered user-facing payload for one
// event. Link is a portal-relative path; the dispatcher prefixes the
// portal base URL.
type NotificationContent struct {
	Title      string
	Message    string
	Link       string
	EntityType string
	EntityID   string
}

// Fixed priority defaults by event type; not caller-configurable.
var eventPriorities = map[string]string{
	EventQuoteSent:      models.PriorityHigh,
	EventQuoteAccepted:  models.PriorityHigh,
	EventJobComplete:    models.PriorityHigh,
	EventInvoiceOverdue: models.PriorityHigh,
	EventPickupComplete: models.PriorityLow,
}

// PriorityFor returns the fixed priority for an event type.
func PriorityFor(eventType string) string {
	if p, ok := eventPriorities[eventType]; ok {
		return p
	}
	return models.PriorityNormal
}

// ResolveContent renders the content template for an event type. It
// is a pure function of (type, context) and is total over EventTypes;
// false means the type is not part of the declared enumeration.
func ResolveContent(eventType string, evt EventContext) (NotificationContent, bool) {
	switch eventType {
	case EventRequestSubmitted:
		return NotificationContent{
			Title:      "New service request",
			Message:    fmt.Sprintf("%s submitted a new service request", evt.CompanyName),
			Link:       "/requests/" + evt.RequestID,
			EntityType: models.EntityTypeRequest,
			EntityID:   evt.RequestID,
		}, true
	case EventQuoteSent:
		return NotificationContent{
			Title:      "Your quote is ready",
			Message:    fmt.Sprintf("Quote %s is ready for your review", evt.QuoteNumber),
			Link:       "/requests/" + evt.RequestID,
			EntityType: models.EntityTypeQuote,
			EntityID:   evt.QuoteID,
		}, true
	case EventQuoteAccepted:
		return NotificationContent{
			Title:      "Quote accepted",
			Message:    fmt.Sprintf("%s accepted quote %s", evt.CompanyName, evt.QuoteNumber),
			Link:       "/quotes/" + evt.QuoteID,
			EntityType: models.EntityTypeQuote,
			EntityID:   evt.QuoteID,
		}, true
	case EventQuoteDeclined:
		return NotificationContent{
			Title:      "Quote declined",
			Message:    fmt.Sprintf("%s declined quote %s", evt.CompanyName, evt.QuoteNumber),
			Link:       "/quotes/" + evt.QuoteID,
			EntityType: models.EntityTypeQuote,
			EntityID:   evt.QuoteID,
		}, true
	case EventQuoteRevisionRequested:
		return NotificationContent{
			Title:      "Quote revision requested",
			Message:    fmt.Sprintf("%s requested changes to quote %s", evt.CompanyName, evt.QuoteNumber),
			Link:       "/quotes/" + evt.QuoteID,
			EntityType: models.EntityTypeQuote,
			EntityID:   evt.QuoteID,
		}, true
	case EventPickupScheduled:
		return NotificationContent{
			Title:      "Pickup scheduled",
			Message:    fmt.Sprintf("Job %s has been scheduled for pickup", evt.JobNumber),
			Link:       "/jobs/" + evt.JobID,
			EntityType: models.EntityTypeJob,
			EntityID:   evt.JobID,
		}, true
	case EventPickupComplete:
		return NotificationContent{
			Title:      "Pickup complete",
			Message:    fmt.Sprintf("Equipment for job %s has been picked up", evt.JobNumber),
			Link:       "/jobs/" + evt.JobID,
			EntityType: models.EntityTypeJob,
			EntityID:   evt.JobID,
		}, true
	case EventJobComplete:
		return NotificationContent{
			Title:      "Job complete",
			Message:    fmt.Sprintf("Job %s is complete, documents are available", evt.JobNumber),
			Link:       "/jobs/" + evt.JobID,
			EntityType: models.EntityTypeJob,
			EntityID:   evt.JobID,
		}, true
	case EventInvoiceOverdue:
		return NotificationContent{
			Title:      "Invoice overdue",
			Message:    fmt.Sprintf("Invoice %s for job %s is overdue", evt.InvoiceNumber, evt.JobNumber),
			Link:       "/jobs/" + evt.JobID,
			EntityType: models.EntityTypeJob,
			EntityID:   evt.JobID,
		}, true
	}
	return NotificationContent{}, false
}
