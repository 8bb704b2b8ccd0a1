package dto

import (
	"time"

	"itad_backend/internal/models"
)

type SubmitRequestRequest struct {
	FormType string                 `json:"form_type" binding:"required" validate:"required,oneof=pickup dropoff"`
	FormData map[string]interface{} `json:"form_data" binding:"required"`
}

type RequestResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	SubmittedBy string    `json:"submitted_by"`
	FormType    string    `json:"form_type"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func BuildRequestResponse(request *models.Request) RequestResponse {
	return RequestResponse{
		ID:          request.ID,
		CompanyID:   request.CompanyID,
		SubmittedBy: request.SubmittedBy,
		FormType:    request.FormType,
		Status:      request.Status,
		Notes:       request.Notes,
		CreatedAt:   request.CreatedAt,
	}
}
