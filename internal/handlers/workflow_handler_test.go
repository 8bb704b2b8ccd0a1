package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"itad_backend/internal/auth"
	"itad_backend/internal/config"
	"itad_backend/internal/models"
	"itad_backend/internal/repositories"
	"itad_backend/internal/services"
	"itad_backend/internal/services/dto"
	"itad_backend/internal/validator"
	"itad_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 1
}

// stubWorkflowService records calls and returns canned results.
type stubWorkflowService struct {
	sendQuoteErr error
	sentQuoteID  string

	respondResult *dto.RespondToQuoteResult
	respondErr    error
	respondedWith dto.QuoteResponseInput

	job          *models.Job
	jobStatusErr error

	declineErr    error
	declineReason string
}

func (s *stubWorkflowService) SendQuote(quoteID string, actorID *string) error {
	s.sentQuoteID = quoteID
	return s.sendQuoteErr
}

func (s *stubWorkflowService) RespondToQuote(quoteID string, response dto.QuoteResponseInput, actingUserID string) (*dto.RespondToQuoteResult, error) {
	s.respondedWith = response
	if s.respondErr != nil {
		return nil, s.respondErr
	}
	return s.respondResult, nil
}

func (s *stubWorkflowService) UpdateJobStatus(jobID, newStatus string, actorID *string) (*models.Job, error) {
	if s.jobStatusErr != nil {
		return nil, s.jobStatusErr
	}
	return s.job, nil
}

func (s *stubWorkflowService) DeclineRequest(requestID, reason string, actorID *string) error {
	s.declineReason = reason
	return s.declineErr
}

type stubTimelineRepo struct {
	events []models.TimelineEvent
}

func (r *stubTimelineRepo) CreateEvent(event *models.TimelineEvent) error {
	r.events = append(r.events, *event)
	return nil
}

func (r *stubTimelineRepo) FindEntityEvents(entityType, entityID string) ([]models.TimelineEvent, error) {
	return r.events, nil
}

var _ repositories.TimelineRepository = (*stubTimelineRepo)(nil)

func newWorkflowRouter(stub *stubWorkflowService) *gin.Engine {
	base := NewBaseHandler(validator.New())
	handler := NewWorkflowHandler(base, stub, services.NewTimelineService(&stubTimelineRepo{}))

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func tokenFor(t *testing.T, role models.UserRole) string {
	t.Helper()
	user := &models.User{
		BaseModel: models.BaseModel{ID: "11111111-2222-3333-4444-555555555555"},
		Role:      role,
	}
	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validUUID = "3fa85f64-5717-4562-b3fc-2c963f66afa6"

func TestSendQuoteEndpoint(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		router := newWorkflowRouter(&stubWorkflowService{})
		rec := doJSON(t, router, http.MethodPost, "/api/v1/workflow/send-quote", "", gin.H{"quote_id": validUUID})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("clients cannot send quotes", func(t *testing.T) {
		router := newWorkflowRouter(&stubWorkflowService{})
		rec := doJSON(t, router, http.MethodPost, "/api/v1/workflow/send-quote",
			tokenFor(t, models.UserRoleClient), gin.H{"quote_id": validUUID})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("staff sends a quote", func(t *testing.T) {
		stub := &stubWorkflowService{}
		router := newWorkflowRouter(stub)
		rec := doJSON(t, router, http.MethodPost, "/api/v1/workflow/send-quote",
			tokenFor(t, models.UserRoleStaff), gin.H{"quote_id": validUUID})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, validUUID, stub.sentQuoteID)
		assert.JSONEq(t, `{"success": true}`, rec.Body.String())
	})

	t.Run("missing quote_id is a validation error", func(t *testing.T) {
		router := newWorkflowRouter(&stubWorkflowService{})
		rec := doJSON(t, router, http.MethodPost, "/api/v1/workflow/send-quote",
			tokenFor(t, models.UserRoleStaff), gin.H{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body, "error")
	})

	t.Run("invalid transition maps to 409 with code", func(t *testing.T) {
		stub := &stubWorkflowService{
			sendQuoteErr: apperrors.ErrInvalidTransition("quote", "Quote cannot be sent from status 'accepted'"),
		}
		router := newWorkflowRouter(stub)
		rec := doJSON(t, router, http.MethodPost, "/api/v1/workflow/send-quote",
			tokenFor(t, models.UserRoleStaff), gin.H{"quote_id": validUUID})

		assert.Equal(t, http.StatusConflict, rec.Code)
		var body apperrors.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, apperrors.CodeInvalidTransition, body.Code)
		assert.NotEmpty(t, body.Error)
	})
}

func TestRespondToQuoteEndpoint(t *testing.T) {
	t.Run("staff cannot respond to quotes", func(t *testing.T) {
		router := newWorkflowRouter(&stubWorkflowService{})
		rec := doJSON(t, router, http.MethodPost, "/api/v1/workflow/respond-to-quote",
			tokenFor(t, models.UserRoleStaff), gin.H{
				"quote_id": validUUID,
				"response": gin.H{"action": "accepted", "signature_name": "C. Client"},
			})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("acceptance returns the job id", func(t *testing.T) {
		jobID := "9c5a0d4e-0000-0000-0000-000000000001"
		stub := &stubWorkflowService{respondResult: &dto.RespondToQuoteResult{JobID: &jobID}}
		router := newWorkflowRouter(stub)

		rec := doJSON(t, router, http.MethodPost, "/api/v1/workflow/respond-to-quote",
			tokenFor(t, models.UserRoleClient), gin.H{
				"quote_id": validUUID,
				"response": gin.H{"action": "accepted", "signature_name": "C. Client"},
			})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "accepted", stub.respondedWith.Action)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, jobID, body["job_id"])
	})

	t.Run("decline returns a null job id", func(t *testing.T) {
		stub := &stubWorkflowService{respondResult: &dto.RespondToQuoteResult{}}
		router := newWorkflowRouter(stub)

		rec := doJSON(t, router, http.MethodPost, "/api/v1/workflow/respond-to-quote",
			tokenFor(t, models.UserRoleClient), gin.H{
				"quote_id": validUUID,
				"response": gin.H{"action": "declined", "reason": "budget"},
			})

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Nil(t, body["job_id"])
	})

	t.Run("unknown action fails validation", func(t *testing.T) {
		router := newWorkflowRouter(&stubWorkflowService{})
		rec := doJSON(t, router, http.MethodPost, "/api/v1/workflow/respond-to-quote",
			tokenFor(t, models.UserRoleClient), gin.H{
				"quote_id": validUUID,
				"response": gin.H{"action": "maybe"},
			})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("stale quote maps to 409", func(t *testing.T) {
		stub := &stubWorkflowService{respondErr: apperrors.ErrQuoteNotAwaitingResponse}
		router := newWorkflowRouter(stub)

		rec := doJSON(t, router, http.MethodPost, "/api/v1/workflow/respond-to-quote",
			tokenFor(t, models.UserRoleClient), gin.H{
				"quote_id": validUUID,
				"response": gin.H{"action": "accepted", "signature_name": "C. Client"},
			})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestUpdateJobStatusEndpoint(t *testing.T) {
	t.Run("staff advances a job", func(t *testing.T) {
		stub := &stubWorkflowService{job: &models.Job{
			BaseModel: models.BaseModel{ID: validUUID},
			JobNumber: "J-3FA85F64",
			Status:    models.JobStatusPickupComplete,
		}}
		router := newWorkflowRouter(stub)

		rec := doJSON(t, router, http.MethodPatch, "/api/v1/jobs/"+validUUID+"/status",
			tokenFor(t, models.UserRoleStaff), gin.H{"status": "pickup_complete"})

		assert.Equal(t, http.StatusOK, rec.Code)
		var job models.Job
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
		assert.Equal(t, models.JobStatusPickupComplete, job.Status)
	})

	t.Run("clients cannot advance jobs", func(t *testing.T) {
		router := newWorkflowRouter(&stubWorkflowService{})
		rec := doJSON(t, router, http.MethodPatch, "/api/v1/jobs/"+validUUID+"/status",
			tokenFor(t, models.UserRoleClient), gin.H{"status": "pickup_complete"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown status fails validation", func(t *testing.T) {
		router := newWorkflowRouter(&stubWorkflowService{})
		rec := doJSON(t, router, http.MethodPatch, "/api/v1/jobs/"+validUUID+"/status",
			tokenFor(t, models.UserRoleStaff), gin.H{"status": "teleported"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestJobTimelineEndpoint(t *testing.T) {
	router := newWorkflowRouter(&stubWorkflowService{})
	rec := doJSON(t, router, http.MethodGet, "/api/v1/jobs/"+validUUID+"/timeline",
		tokenFor(t, models.UserRoleClient), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "events")
}
