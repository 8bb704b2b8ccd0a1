package services

import (
	"fmt"
	"time"

	"itad_backend/internal/logger"
	"itad_backend/internal/models"
	"itad_backend/internal/repositories"
	"itad_backend/internal/services/dto"
	"itad_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// WorkflowService orchestrates the legal state transitions across
// requests, quotes and jobs. Every operation re-fetches current state
// and commits transitions through conditional status writes, so a
// precondition observed here is re-checked at the moment of mutation.
// Timeline and notification side effects run after the commit point
// and can never unwind it.
type WorkflowService interface {
	SendQuote(quoteID string, actorID *string) error
	RespondToQuote(quoteID string, response dto.QuoteResponseInput, actingUserID string) (*dto.RespondToQuoteResult, error)
	UpdateJobStatus(jobID, newStatus string, actorID *string) (*models.Job, error)
	DeclineRequest(requestID, reason string, actorID *string) error
}

type workflowService struct {
	requestRepo repositories.RequestRepository
	quoteRepo   repositories.QuoteRepository
	jobRepo     repositories.JobRepository
	userRepo    repositories.UserRepository
	timeline    *TimelineService
	dispatcher  NotificationDispatcher
}

func NewWorkflowService(
	requestRepo repositories.RequestRepository,
	quoteRepo repositories.QuoteRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	timeline *TimelineService,
	dispatcher NotificationDispatcher,
) WorkflowService {
	return &workflowService{
		requestRepo: requestRepo,
		quoteRepo:   quoteRepo,
		jobRepo:     jobRepo,
		userRepo:    userRepo,
		timeline:    timeline,
		dispatcher:  dispatcher,
	}
}

// SendQuote moves a draft or revision_requested quote to sent and the
// owning request to quote_ready. Totals are recomputed from the line
// items at this point; whatever totals were stored before are
// overwritten.
func (s *workflowService) SendQuote(quoteID string, actorID *string) error {
	quote, err := s.quoteRepo.FindQuoteByID(quoteID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrQuoteNotFound) {
			return apperrors.ErrNotFound(err, "quote", "Quote not found")
		}
		return apperrors.InternalError(err)
	}

	sendable := []string{models.QuoteStatusDraft, models.QuoteStatusRevisionRequested}
	if quote.Status != models.QuoteStatusDraft && quote.Status != models.QuoteStatusRevisionRequested {
		return apperrors.ErrInvalidTransition("quote",
			fmt.Sprintf("Quote cannot be sent from status '%s'", quote.Status))
	}
	if len(quote.LineItems) == 0 {
		return apperrors.ErrQuoteHasNoLineItems
	}

	request, err := s.requestRepo.FindRequestByID(quote.RequestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return apperrors.ErrNotFound(err, "request", "Request not found")
		}
		return apperrors.InternalError(err)
	}

	subtotal, discountAmount, total := ComputeTotals(quote.LineItems, quote.DiscountType, quote.DiscountValue)
	now := time.Now()

	ok, err := s.quoteRepo.TransitionStatus(quote.ID, sendable, map[string]interface{}{
		"status":          models.QuoteStatusSent,
		"sent_at":         now,
		"subtotal":        subtotal,
		"discount_amount": discountAmount,
		"total":           total,
	})
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		// Someone else moved the quote between our read and the write.
		return apperrors.ErrInvalidTransition("quote", "Quote is no longer in a sendable status")
	}

	if _, err := s.requestRepo.TransitionStatus(request.ID,
		[]string{models.RequestStatusPending, models.RequestStatusQuoteReady},
		map[string]interface{}{"status": models.RequestStatusQuoteReady},
	); err != nil {
		return apperrors.InternalError(err)
	}

	s.recordStatusChange(models.EntityTypeQuote, quote.ID, quote.Status, models.QuoteStatusSent, actorID)
	if request.Status != models.RequestStatusQuoteReady {
		s.recordStatusChange(models.EntityTypeRequest, request.ID, request.Status, models.RequestStatusQuoteReady, actorID)
	}

	s.fireEvent(EventQuoteSent, func() error {
		return s.dispatcher.NotifyCompany(quote.CompanyID, EventQuoteSent, EventContext{
			QuoteNumber: quote.QuoteNumber,
			QuoteID:     quote.ID,
			RequestID:   quote.RequestID,
		})
	})
	return nil
}

// RespondToQuote applies a client's tagged response to a sent quote.
// Only the accepted branch yields a job id.
func (s *workflowService) RespondToQuote(quoteID string, response dto.QuoteResponseInput, actingUserID string) (*dto.RespondToQuoteResult, error) {
	quote, err := s.quoteRepo.FindQuoteByID(quoteID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrQuoteNotFound) {
			return nil, apperrors.ErrNotFound(err, "quote", "Quote not found")
		}
		return nil, apperrors.InternalError(err)
	}

	actingUser, err := s.userRepo.FindByID(actingUserID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized("quote", "You do not have access to this quote")
	}
	if actingUser.CompanyID == nil || *actingUser.CompanyID != quote.CompanyID {
		return nil, apperrors.ErrUnauthorized("quote", "You do not have access to this quote")
	}

	// sent is the only state awaiting a client response; a second
	// acceptance attempt fails here before it could touch the job.
	if quote.Status != models.QuoteStatusSent {
		return nil, apperrors.ErrQuoteNotAwaitingResponse
	}

	companyName := ""
	if company, err := s.userRepo.FindCompanyByID(quote.CompanyID); err == nil {
		companyName = company.Name
	}

	switch response.Action {
	case models.QuoteStatusAccepted:
		return s.acceptQuote(quote, response, actingUserID, companyName)
	case models.QuoteStatusDeclined:
		return s.declineQuote(quote, response, actingUserID, companyName)
	case models.QuoteStatusRevisionRequested:
		return s.requestRevision(quote, response, actingUserID, companyName)
	default:
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Unknown response action '%s'", response.Action))
	}
}

func (s *workflowService) acceptQuote(quote *models.Quote, response dto.QuoteResponseInput, actingUserID, companyName string) (*dto.RespondToQuoteResult, error) {
	if response.SignatureName == "" {
		return nil, apperrors.NewBadRequestError("signature_name is required to accept a quote")
	}

	now := time.Now()
	ok, err := s.quoteRepo.TransitionStatus(quote.ID, []string{models.QuoteStatusSent}, map[string]interface{}{
		"status":         models.QuoteStatusAccepted,
		"accepted_at":    now,
		"accepted_by":    actingUserID,
		"signature_name": response.SignatureName,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !ok {
		// Lost the race against a concurrent response.
		return nil, apperrors.ErrQuoteNotAwaitingResponse
	}

	// Exactly one job per accepted quote. The conditional transition
	// above admits a single winner and the unique quote reference in
	// the job store backs it up.
	job, err := s.createJobForQuote(quote, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.requestRepo.TransitionStatus(quote.RequestID,
		[]string{models.RequestStatusQuoteReady},
		map[string]interface{}{"status": models.RequestStatusAccepted},
	); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.recordStatusChange(models.EntityTypeQuote, quote.ID, models.QuoteStatusSent, models.QuoteStatusAccepted, &actingUserID)
	s.recordCreated(models.EntityTypeJob, job.ID)
	s.recordStatusChange(models.EntityTypeRequest, quote.RequestID, models.RequestStatusQuoteReady, models.RequestStatusAccepted, nil)

	s.fireEvent(EventQuoteAccepted, func() error {
		return s.dispatcher.Broadcast(EventQuoteAccepted, EventContext{
			CompanyName: companyName,
			QuoteNumber: quote.QuoteNumber,
			QuoteID:     quote.ID,
		})
	})

	return &dto.RespondToQuoteResult{JobID: &job.ID}, nil
}

func (s *workflowService) createJobForQuote(quote *models.Quote, acceptedAt time.Time) (*models.Job, error) {
	jobID := uuid.NewString()
	job := &models.Job{
		BaseModel: models.BaseModel{ID: jobID},
		JobNumber: NumberFromID("J", jobID),
		QuoteID:   quote.ID,
		RequestID: quote.RequestID,
		CompanyID: quote.CompanyID,
		Status:    models.JobStatusPickupScheduled,
	}
	job.ScheduledAt = &acceptedAt

	err := s.jobRepo.CreateJob(job)
	if err == nil {
		return job, nil
	}
	if apperrors.Is(err, repositories.ErrJobAlreadyExists) {
		// A job already exists for this quote (recovered partial
		// failure). Converge on it rather than erroring the client.
		existing, findErr := s.jobRepo.FindJobByQuoteID(quote.ID)
		if findErr != nil {
			return nil, apperrors.InternalError(findErr)
		}
		return existing, nil
	}
	return nil, apperrors.InternalError(err)
}

func (s *workflowService) declineQuote(quote *models.Quote, response dto.QuoteResponseInput, actingUserID, companyName string) (*dto.RespondToQuoteResult, error) {
	ok, err := s.quoteRepo.TransitionStatus(quote.ID, []string{models.QuoteStatusSent}, map[string]interface{}{
		"status":         models.QuoteStatusDeclined,
		"decline_reason": response.Reason,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !ok {
		return nil, apperrors.ErrQuoteNotAwaitingResponse
	}

	if _, err := s.requestRepo.TransitionStatus(quote.RequestID,
		[]string{models.RequestStatusQuoteReady},
		map[string]interface{}{"status": models.RequestStatusDeclined},
	); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.recordDeclined(models.EntityTypeQuote, quote.ID, response.Reason, &actingUserID)
	s.recordStatusChange(models.EntityTypeRequest, quote.RequestID, models.RequestStatusQuoteReady, models.RequestStatusDeclined, nil)

	s.fireEvent(EventQuoteDeclined, func() error {
		return s.dispatcher.Broadcast(EventQuoteDeclined, EventContext{
			CompanyName: companyName,
			QuoteNumber: quote.QuoteNumber,
			QuoteID:     quote.ID,
			Reason:      response.Reason,
		})
	})

	return &dto.RespondToQuoteResult{JobID: nil}, nil
}

func (s *workflowService) requestRevision(quote *models.Quote, response dto.QuoteResponseInput, actingUserID, companyName string) (*dto.RespondToQuoteResult, error) {
	if response.Message == "" {
		return nil, apperrors.NewBadRequestError("message is required to request a revision")
	}

	ok, err := s.quoteRepo.TransitionStatus(quote.ID, []string{models.QuoteStatusSent}, map[string]interface{}{
		"status":           models.QuoteStatusRevisionRequested,
		"revision_message": response.Message,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !ok {
		return nil, apperrors.ErrQuoteNotAwaitingResponse
	}

	// The request stays quote_ready through a revision cycle; only
	// sendQuote/accept/decline move it.
	s.recordStatusChange(models.EntityTypeQuote, quote.ID, models.QuoteStatusSent, models.QuoteStatusRevisionRequested, &actingUserID)

	s.fireEvent(EventQuoteRevisionRequested, func() error {
		return s.dispatcher.Broadcast(EventQuoteRevisionRequested, EventContext{
			CompanyName: companyName,
			QuoteNumber: quote.QuoteNumber,
			QuoteID:     quote.ID,
			Message:     response.Message,
		})
	})

	return &dto.RespondToQuoteResult{JobID: nil}, nil
}

// jobStatusEvents maps a job status to the company-facing event fired
// when the job reaches it. Statuses absent here notify nobody.
var jobStatusEvents = map[string]string{
	models.JobStatusPickupScheduled: EventPickupScheduled,
	models.JobStatusPickupComplete:  EventPickupComplete,
	models.JobStatusComplete:        EventJobComplete,
}

// UpdateJobStatus advances a job along the fixed forward-only table
// and stamps the matching stage timestamp.
func (s *workflowService) UpdateJobStatus(jobID, newStatus string, actorID *string) (*models.Job, error) {
	job, err := s.jobRepo.FindJobByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "job", "Job not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if !models.CanTransitionJob(job.Status, newStatus) {
		return nil, apperrors.ErrInvalidTransition("job",
			fmt.Sprintf("Job cannot move from '%s' to '%s'", job.Status, newStatus))
	}

	now := time.Now()
	updates := map[string]interface{}{"status": newStatus}
	switch newStatus {
	case models.JobStatusPickupComplete:
		updates["pickup_complete_at"] = now
	case models.JobStatusProcessing:
		updates["processing_started_at"] = now
	case models.JobStatusComplete:
		updates["completed_at"] = now
	}

	ok, err := s.jobRepo.TransitionStatus(job.ID, []string{job.Status}, updates)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidTransition("job", "Job status changed concurrently, re-fetch and retry")
	}

	s.recordStatusChange(models.EntityTypeJob, job.ID, job.Status, newStatus, actorID)

	if eventType, notifiable := jobStatusEvents[newStatus]; notifiable {
		s.fireEvent(eventType, func() error {
			return s.dispatcher.NotifyCompany(job.CompanyID, eventType, EventContext{
				JobNumber: job.JobNumber,
				JobID:     job.ID,
			})
		})
	}

	updated, err := s.jobRepo.FindJobByID(job.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return updated, nil
}

// DeclineRequest closes a pending request without ever creating a
// quote. The reason is appended to the request's notes, existing
// notes are kept.
func (s *workflowService) DeclineRequest(requestID, reason string, actorID *string) error {
	request, err := s.requestRepo.FindRequestByID(requestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return apperrors.ErrNotFound(err, "request", "Request not found")
		}
		return apperrors.InternalError(err)
	}

	if request.Status != models.RequestStatusPending {
		return apperrors.ErrRequestNotPending
	}

	updates := map[string]interface{}{"status": models.RequestStatusDeclined}
	if reason != "" {
		notes := request.Notes
		if notes != "" {
			notes += "\n"
		}
		notes += "Declined: " + reason
		updates["notes"] = notes
	}

	ok, err := s.requestRepo.TransitionStatus(request.ID, []string{models.RequestStatusPending}, updates)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.ErrRequestNotPending
	}

	s.recordDeclined(models.EntityTypeRequest, request.ID, reason, actorID)
	return nil
}

// --- Side effect helpers ---

// fireEvent isolates notification dispatch from the committed state
// mutation: any error is logged and dropped.
func (s *workflowService) fireEvent(eventType string, dispatch func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("notification dispatch panicked", "event", eventType, "panic", r)
		}
	}()
	if err := dispatch(); err != nil {
		logger.WithError(err).Warn("notification dispatch failed", "event", eventType)
	}
}

func (s *workflowService) recordStatusChange(entityType, entityID, previous, next string, actorID *string) {
	if err := s.timeline.CreateStatusChange(entityType, entityID, previous, next, actorID); err != nil {
		logger.WithError(err).Warn("failed to append timeline event",
			"entity_type", entityType, "entity_id", entityID)
	}
}

func (s *workflowService) recordCreated(entityType, entityID string) {
	if err := s.timeline.CreateCreatedEvent(entityType, entityID, nil); err != nil {
		logger.WithError(err).Warn("failed to append timeline event",
			"entity_type", entityType, "entity_id", entityID)
	}
}

func (s *workflowService) recordDeclined(entityType, entityID, reason string, actorID *string) {
	if err := s.timeline.CreateDeclinedEvent(entityType, entityID, reason, actorID); err != nil {
		logger.WithError(err).Warn("failed to append timeline event",
			"entity_type", entityType, "entity_id", entityID)
	}
}
