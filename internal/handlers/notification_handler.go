package handlers

import (
	"net/http"

	"itad_backend/internal/middleware"
	"itad_backend/internal/repositories"
	"itad_backend/internal/services"
	"itad_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the in-app inbox.
type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.GetUserNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.PUT("/:notificationId/read", h.MarkAsRead)
		notifications.PUT("/read-all", h.MarkAllAsRead)
		notifications.DELETE("/:notificationId", h.Dismiss)
	}
}

func (h *NotificationHandler) GetUserNotifications(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var criteria repositories.NotificationCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	list, err := h.notificationService.GetUserNotifications(userID, criteria)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.GetUnreadCount(userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(userID, c.Param("notificationId")); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllAsRead(userID); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *NotificationHandler) Dismiss(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.Dismiss(userID, c.Param("notificationId")); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
