package handlers

import (
	"net/http"
	"strconv"

	"itad_backend/internal/middleware"
	"itad_backend/internal/models"
	"itad_backend/internal/services"
	"itad_backend/internal/services/dto"
	"itad_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	*BaseHandler
	requestService  *services.RequestService
	workflowService services.WorkflowService
	timelineService *services.TimelineService
}

func NewRequestHandler(base *BaseHandler, requestService *services.RequestService, workflowService services.WorkflowService, timelineService *services.TimelineService) *RequestHandler {
	return &RequestHandler{
		BaseHandler:     base,
		requestService:  requestService,
		workflowService: workflowService,
		timelineService: timelineService,
	}
}

func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("", middleware.RequireRoles(models.UserRoleClient), h.SubmitRequest)
		requests.GET("", h.ListRequests)
		requests.GET("/:requestId", h.GetRequest)
		requests.GET("/:requestId/timeline", h.GetRequestTimeline)
		requests.POST("/:requestId/decline", middleware.RequireRoles(models.UserRoleStaff), h.DeclineRequest)
	}
}

func (h *RequestHandler) SubmitRequest(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	request, err := h.requestService.SubmitRequest(userID, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListRequests returns the caller's company requests. Staff users pass
// an explicit company_id query parameter.
func (h *RequestHandler) ListRequests(c *gin.Context) {
	if _, ok := h.CurrentUserID(c); !ok {
		return
	}

	companyID := c.Query("company_id")
	if h.CurrentRole(c) == models.UserRoleClient {
		val, exists := c.Get("companyID")
		if !exists {
			apperrors.HandleError(c, apperrors.NewForbiddenError("User has no company"))
			return
		}
		companyID, _ = val.(string)
	}
	if companyID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("company_id is required"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	list, err := h.requestService.ListCompanyRequests(companyID, page, pageSize)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	if _, ok := h.CurrentUserID(c); !ok {
		return
	}

	request, err := h.requestService.GetRequest(c.Param("requestId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) DeclineRequest(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.DeclineRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.workflowService.DeclineRequest(c.Param("requestId"), req.Reason, &userID); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *RequestHandler) GetRequestTimeline(c *gin.Context) {
	if _, ok := h.CurrentUserID(c); !ok {
		return
	}

	events, err := h.timelineService.GetEntityTimeline(models.EntityTypeRequest, c.Param("requestId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
