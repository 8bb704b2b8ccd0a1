package handlers

import (
	"net/http"

	"itad_backend/internal/logger"
	"itad_backend/internal/models"
	"itad_backend/internal/validator"
	"itad_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// BindAndValidate_JSON binds the JSON body and runs struct validation.
// Writes the error response and returns false on failure.
func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed (query)", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error (query)", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// CurrentUserID returns the authenticated user id from the context.
// AuthMiddleware is expected to have run; an empty id means no auth.
func (h *BaseHandler) CurrentUserID(c *gin.Context) (string, bool) {
	val, exists := c.Get("userID")
	if !exists {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return "", false
	}
	userID, ok := val.(string)
	if !ok || userID == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return "", false
	}
	return userID, true
}

// CurrentRole returns the authenticated user's role, defaulting to client.
func (h *BaseHandler) CurrentRole(c *gin.Context) models.UserRole {
	val, exists := c.Get("role")
	if !exists {
		return models.UserRoleClient
	}
	switch r := val.(type) {
	case models.UserRole:
		return r
	case string:
		return models.UserRole(r)
	}
	return models.UserRoleClient
}

func (h *BaseHandler) OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

func (h *BaseHandler) Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}
