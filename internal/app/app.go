package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"itad_backend/internal/config"
	"itad_backend/internal/database"
	"itad_backend/internal/delivery"
	"itad_backend/internal/handlers"
	"itad_backend/internal/logger"
	"itad_backend/internal/middleware"
	"itad_backend/internal/models"
	"itad_backend/internal/repositories"
	"itad_backend/internal/routes"
	"itad_backend/internal/services"
	"itad_backend/internal/validator"
	"itad_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstStaff(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first staff user", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter := SetupRouter(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full dependency graph and returns the router.
// The context bounds the background delivery worker.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	// Repositories
	userRepo := repositories.NewUserRepository(gormDB)
	requestRepo := repositories.NewRequestRepository(gormDB)
	quoteRepo := repositories.NewQuoteRepository(gormDB)
	jobRepo := repositories.NewJobRepository(gormDB)
	timelineRepo := repositories.NewTimelineRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	// External delivery. Without SMTP configured everything outward
	// becomes a no-op and only in-app rows are written.
	var provider delivery.Provider
	if cfg.Email.SMTPHost != "" {
		provider = delivery.NewSMTPWebhookProvider(
			&delivery.SMTPConfig{
				Host:      cfg.Email.SMTPHost,
				Port:      cfg.Email.SMTPPort,
				Username:  cfg.Email.SMTPUsername,
				Password:  cfg.Email.SMTPPassword,
				FromEmail: cfg.Email.FromEmail,
				FromName:  cfg.Email.FromName,
			},
			&delivery.PushConfig{
				WebhookURL: cfg.Push.WebhookURL,
				APIKey:     cfg.Push.APIKey,
				Timeout:    time.Duration(cfg.Push.TimeoutSec) * time.Second,
			},
		)
	} else {
		logger.Warn("SMTP is not configured, external delivery disabled")
		provider = &NoopProvider{}
	}

	deliveryWorker := workers.NewDeliveryWorker(provider, notificationRepo, 0)
	deliveryWorker.Start(ctx)

	// Services
	timelineService := services.NewTimelineService(timelineRepo)
	resolver := services.NewRecipientResolver(userRepo)
	dispatcher := services.NewNotificationDispatcher(notificationRepo, resolver, deliveryWorker, cfg.Portal.BaseURL)

	authService := services.NewAuthService(userRepo)
	requestService := services.NewRequestService(requestRepo, userRepo, timelineService, dispatcher)
	quoteService := services.NewQuoteService(quoteRepo, requestRepo, timelineService)
	workflowService := services.NewWorkflowService(requestRepo, quoteRepo, jobRepo, userRepo, timelineService, dispatcher)
	notificationService := services.NewNotificationService(notificationRepo)

	// Handlers
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	appHandlers := &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, authService),
		RequestHandler:      handlers.NewRequestHandler(baseHandler, requestService, workflowService, timelineService),
		QuoteHandler:        handlers.NewQuoteHandler(baseHandler, quoteService, timelineService),
		WorkflowHandler:     handlers.NewWorkflowHandler(baseHandler, workflowService, timelineService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, notificationService),
	}

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	return router
}

// seedFirstStaff creates the bootstrap staff account so the portal is
// reachable on a fresh database.
func seedFirstStaff(db *gorm.DB, cfg *config.Config) error {
	email := cfg.Seed.StaffEmail
	password := cfg.Seed.StaffPassword

	if email == "" || password == "" {
		logger.Warn("Seed staff credentials are not set, skipping staff seeding")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		logger.Info("Staff user already exists, skipping creation", "email", email)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for staff user: %w", result.Error)
	}

	logger.Warn("No staff user found, creating first staff account", "email", email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash staff password: %w", err)
	}

	newStaff := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         "Portal Staff",
		Role:         models.UserRoleStaff,
		IsActive:     true,
	}
	if err := db.Create(newStaff).Error; err != nil {
		return fmt.Errorf("failed to create staff user: %w", err)
	}
	return nil
}
