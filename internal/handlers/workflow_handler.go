package handlers

import (
	"net/http"

	"itad_backend/internal/middleware"
	"itad_backend/internal/models"
	"itad_backend/internal/services"
	"itad_backend/internal/services/dto"

	"itad_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// WorkflowHandler exposes the status transitions that drive the
// request -> quote -> job lifecycle.
type WorkflowHandler struct {
	*BaseHandler
	workflowService services.WorkflowService
	timelineService *services.TimelineService
}

func NewWorkflowHandler(base *BaseHandler, workflowService services.WorkflowService, timelineService *services.TimelineService) *WorkflowHandler {
	return &WorkflowHandler{
		BaseHandler:     base,
		workflowService: workflowService,
		timelineService: timelineService,
	}
}

func (h *WorkflowHandler) RegisterRoutes(r *gin.RouterGroup) {
	workflow := r.Group("/workflow")
	workflow.Use(middleware.AuthMiddleware())
	{
		workflow.POST("/send-quote", middleware.RequireRoles(models.UserRoleStaff), h.SendQuote)
		workflow.POST("/respond-to-quote", middleware.RequireRoles(models.UserRoleClient), h.RespondToQuote)
	}

	jobs := r.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.PATCH("/:jobId/status", middleware.RequireRoles(models.UserRoleStaff), h.UpdateJobStatus)
		jobs.GET("/:jobId/timeline", h.GetJobTimeline)
	}
}

func (h *WorkflowHandler) SendQuote(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.SendQuoteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.workflowService.SendQuote(req.QuoteID, &userID); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *WorkflowHandler) RespondToQuote(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.RespondToQuoteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.workflowService.RespondToQuote(req.QuoteID, req.Response, userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "job_id": result.JobID})
}

func (h *WorkflowHandler) UpdateJobStatus(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	jobID := c.Param("jobId")

	var req dto.UpdateJobStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.workflowService.UpdateJobStatus(jobID, req.Status, &userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *WorkflowHandler) GetJobTimeline(c *gin.Context) {
	if _, ok := h.CurrentUserID(c); !ok {
		return
	}

	events, err := h.timelineService.GetEntityTimeline(models.EntityTypeJob, c.Param("jobId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
