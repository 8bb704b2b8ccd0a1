package services

import (
	"fmt"

	"itad_backend/internal/logger"
	"itad_backend/internal/models"
	"itad_backend/internal/repositories"
	"itad_backend/internal/services/dto"
	"itad_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// QuoteService is the staff-facing quote surface: drafting and
// editing. Sending and the client response path belong to the
// workflow engine.
type QuoteService struct {
	quoteRepo   repositories.QuoteRepository
	requestRepo repositories.RequestRepository
	timeline    *TimelineService
}

func NewQuoteService(
	quoteRepo repositories.QuoteRepository,
	requestRepo repositories.RequestRepository,
	timeline *TimelineService,
) *QuoteService {
	return &QuoteService{
		quoteRepo:   quoteRepo,
		requestRepo: requestRepo,
		timeline:    timeline,
	}
}

// CreateQuote drafts a quote for a request. The request must still be
// open (pending, or quote_ready during a revision cycle).
func (s *QuoteService) CreateQuote(staffUserID string, req *dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	request, err := s.requestRepo.FindRequestByID(req.RequestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrNotFound(err, "request", "Request not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if request.Status != models.RequestStatusPending && request.Status != models.RequestStatusQuoteReady {
		return nil, apperrors.ErrInvalidTransition("request",
			fmt.Sprintf("Cannot quote a request in status '%s'", request.Status))
	}

	discountType := req.DiscountType
	if discountType == "" {
		discountType = models.DiscountTypeAmount
	}

	items := buildLineItems(req.LineItems)
	subtotal, discountAmount, total := ComputeTotals(items, discountType, req.DiscountValue)

	quoteID := uuid.NewString()
	quote := &models.Quote{
		BaseModel:      models.BaseModel{ID: quoteID},
		QuoteNumber:    NumberFromID("Q", quoteID),
		RequestID:      request.ID,
		CompanyID:      request.CompanyID,
		CreatedBy:      staffUserID,
		Status:         models.QuoteStatusDraft,
		Subtotal:       subtotal,
		DiscountType:   discountType,
		DiscountValue:  req.DiscountValue,
		DiscountAmount: discountAmount,
		Total:          total,
		ValidUntil:     req.ValidUntil,
		Terms:          req.Terms,
		LineItems:      items,
	}

	if err := s.quoteRepo.CreateQuote(quote); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.timeline.CreateCreatedEvent(models.EntityTypeQuote, quote.ID, &staffUserID); err != nil {
		logger.WithError(err).Warn("failed to append timeline event",
			"entity_type", models.EntityTypeQuote, "entity_id", quote.ID)
	}

	return dto.BuildQuoteResponse(quote), nil
}

// UpdateQuote edits a draft or revision_requested quote. When line
// items are present they replace the stored set wholesale, and totals
// are recomputed either way.
func (s *QuoteService) UpdateQuote(quoteID string, req *dto.UpdateQuoteRequest) (*dto.QuoteResponse, error) {
	quote, err := s.quoteRepo.FindQuoteByID(quoteID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrQuoteNotFound) {
			return nil, apperrors.ErrNotFound(err, "quote", "Quote not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if quote.Status != models.QuoteStatusDraft && quote.Status != models.QuoteStatusRevisionRequested {
		return nil, apperrors.ErrInvalidTransition("quote",
			fmt.Sprintf("Quote cannot be edited in status '%s'", quote.Status))
	}

	items := quote.LineItems
	if req.LineItems != nil {
		items = buildLineItems(req.LineItems)
		if err := s.quoteRepo.ReplaceLineItems(quote.ID, items); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	discountType := quote.DiscountType
	if req.DiscountType != nil {
		discountType = *req.DiscountType
	}
	discountValue := quote.DiscountValue
	if req.DiscountValue != nil {
		discountValue = *req.DiscountValue
	}

	subtotal, discountAmount, total := ComputeTotals(items, discountType, discountValue)

	updates := map[string]interface{}{
		"subtotal":        subtotal,
		"discount_type":   discountType,
		"discount_value":  discountValue,
		"discount_amount": discountAmount,
		"total":           total,
	}
	if req.ValidUntil != nil {
		updates["valid_until"] = *req.ValidUntil
	}
	if req.Terms != nil {
		updates["terms"] = *req.Terms
	}

	if err := s.quoteRepo.UpdateQuote(quote.ID, updates); err != nil {
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.quoteRepo.FindQuoteByID(quote.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.BuildQuoteResponse(updated), nil
}

// GetQuote fetches a quote with its line items.
func (s *QuoteService) GetQuote(quoteID string) (*dto.QuoteResponse, error) {
	quote, err := s.quoteRepo.FindQuoteByID(quoteID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrQuoteNotFound) {
			return nil, apperrors.ErrNotFound(err, "quote", "Quote not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.BuildQuoteResponse(quote), nil
}

func buildLineItems(inputs []dto.LineItemInput) []models.QuoteLineItem {
	items := make([]models.QuoteLineItem, len(inputs))
	for i, input := range inputs {
		items[i] = models.QuoteLineItem{
			Position:    i,
			Description: input.Description,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
			LineTotal:   LineTotal(input.Quantity, input.UnitPrice),
		}
	}
	return items
}
