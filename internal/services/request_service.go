package services

import (
	"encoding/json"
	"fmt"

	"itad_backend/internal/logger"
	"itad_backend/internal/models"
	"itad_backend/internal/repositories"
	"itad_backend/internal/services/dto"
	"itad_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// RequestService is the client-facing request surface: submission and
// read access. Everything after submission is driven by the workflow
// engine.
type RequestService struct {
	requestRepo repositories.RequestRepository
	userRepo    repositories.UserRepository
	timeline    *TimelineService
	dispatcher  NotificationDispatcher
}

func NewRequestService(
	requestRepo repositories.RequestRepository,
	userRepo repositories.UserRepository,
	timeline *TimelineService,
	dispatcher NotificationDispatcher,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		timeline:    timeline,
		dispatcher:  dispatcher,
	}
}

// SubmitRequest creates a pending request for the submitter's company
// and tells staff about it.
func (s *RequestService) SubmitRequest(submitterID string, req *dto.SubmitRequestRequest) (*dto.RequestResponse, error) {
	submitter, err := s.userRepo.FindByID(submitterID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "user", "User not found")
	}
	if submitter.CompanyID == nil {
		return nil, apperrors.ErrUnauthorized("request", "User does not belong to a company")
	}

	formJSON, err := json.Marshal(req.FormData)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid form data: %v", err))
	}

	request := &models.Request{
		CompanyID:   *submitter.CompanyID,
		SubmittedBy: submitter.ID,
		FormType:    req.FormType,
		FormData:    datatypes.JSON(formJSON),
		Status:      models.RequestStatusPending,
	}

	if err := s.requestRepo.CreateRequest(request); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.timeline.CreateCreatedEvent(models.EntityTypeRequest, request.ID, &submitter.ID); err != nil {
		logger.WithError(err).Warn("failed to append timeline event",
			"entity_type", models.EntityTypeRequest, "entity_id", request.ID)
	}

	companyName := ""
	if company, err := s.userRepo.FindCompanyByID(*submitter.CompanyID); err == nil {
		companyName = company.Name
	}
	if err := s.dispatcher.Broadcast(EventRequestSubmitted, EventContext{
		CompanyName: companyName,
		RequestID:   request.ID,
	}); err != nil {
		logger.WithError(err).Warn("notification dispatch failed", "event", EventRequestSubmitted)
	}

	response := dto.BuildRequestResponse(request)
	return &response, nil
}

// GetRequest fetches one request.
func (s *RequestService) GetRequest(requestID string) (*dto.RequestResponse, error) {
	request, err := s.requestRepo.FindRequestByID(requestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrNotFound(err, "request", "Request not found")
		}
		return nil, apperrors.InternalError(err)
	}
	response := dto.BuildRequestResponse(request)
	return &response, nil
}

// ListCompanyRequests pages through a company's requests, newest first.
func (s *RequestService) ListCompanyRequests(companyID string, page, pageSize int) (*dto.RequestListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	requests, total, err := s.requestRepo.FindCompanyRequests(companyID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.RequestResponse, len(requests))
	for i := range requests {
		responses[i] = dto.BuildRequestResponse(&requests[i])
	}
	return &dto.RequestListResponse{
		Requests: responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
