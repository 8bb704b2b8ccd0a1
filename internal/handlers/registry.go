package handlers

// AppHandlers holds every handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	RequestHandler      *RequestHandler
	QuoteHandler        *QuoteHandler
	WorkflowHandler     *WorkflowHandler
	NotificationHandler *NotificationHandler
}
