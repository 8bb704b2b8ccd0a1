package routes

import (
	"net/http"

	"itad_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.RequestHandler.RegisterRoutes(api)
		appHandlers.QuoteHandler.RegisterRoutes(api)
		appHandlers.WorkflowHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
	}
}
