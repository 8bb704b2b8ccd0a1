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

type QuoteHandler struct {
	*BaseHandler
	quoteService    *services.QuoteService
	timelineService *services.TimelineService
}

func NewQuoteHandler(base *BaseHandler, quoteService *services.QuoteService, timelineService *services.TimelineService) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler:     base,
		quoteService:    quoteService,
		timelineService: timelineService,
	}
}

func (h *QuoteHandler) RegisterRoutes(r *gin.RouterGroup) {
	quotes := r.Group("/quotes")
	quotes.Use(middleware.AuthMiddleware())
	{
		quotes.POST("", middleware.RequireRoles(models.UserRoleStaff), h.CreateQuote)
		quotes.PUT("/:quoteId", middleware.RequireRoles(models.UserRoleStaff), h.UpdateQuote)
		quotes.GET("/:quoteId", h.GetQuote)
		quotes.GET("/:quoteId/timeline", h.GetQuoteTimeline)
	}
}

func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateQuoteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	quote, err := h.quoteService.CreateQuote(userID, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quote)
}

func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	if _, ok := h.CurrentUserID(c); !ok {
		return
	}

	var req dto.UpdateQuoteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	quote, err := h.quoteService.UpdateQuote(c.Param("quoteId"), &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h *QuoteHandler) GetQuote(c *gin.Context) {
	if _, ok := h.CurrentUserID(c); !ok {
		return
	}

	quote, err := h.quoteService.GetQuote(c.Param("quoteId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h *QuoteHandler) GetQuoteTimeline(c *gin.Context) {
	if _, ok := h.CurrentUserID(c); !ok {
		return
	}

	events, err := h.timelineService.GetEntityTimeline(models.EntityTypeQuote, c.Param("quoteId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
