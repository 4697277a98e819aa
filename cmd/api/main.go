package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/harukimori/orderdesk-api/internal/application/service"
	"github.com/harukimori/orderdesk-api/internal/config"
	"github.com/harukimori/orderdesk-api/internal/infrastructure/drive"
	"github.com/harukimori/orderdesk-api/internal/infrastructure/storage"
	"github.com/harukimori/orderdesk-api/internal/presentation/http/handler"
	"github.com/harukimori/orderdesk-api/internal/presentation/http/routes"
	"github.com/harukimori/orderdesk-api/internal/tasks"
	"github.com/harukimori/orderdesk-api/pkg/email"
	"github.com/harukimori/orderdesk-api/pkg/oauth"
	"github.com/harukimori/orderdesk-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to Redis
	rdb, err := storage.ConnectRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize the order store on the shared collection key
	orderStore := storage.NewOrderStore(storage.NewRedisKV(rdb), cfg.Store.OrdersKey)

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize the document drive
	documentDrive, err := drive.NewS3Drive(context.Background(), &cfg.Drive)
	if err != nil {
		log.Fatalf("Failed to initialize document drive: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(googleOAuthService, jwtManager)
	orderService := service.NewOrderService(orderStore)
	exportService := service.NewExportService()

	// Initialize the background task pipeline
	taskClient := tasks.NewClient(&cfg.Redis)
	defer taskClient.Close()
	enqueuer := tasks.NewEnqueuer(taskClient)

	processor := tasks.NewTaskProcessor(orderService, exportService, documentDrive, emailService)
	taskServer, taskMux := tasks.SetupServer(cfg, processor)
	go func() {
		if err := taskServer.Run(taskMux); err != nil {
			log.Fatalf("Failed to start task server: %v", err)
		}
	}()

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Order:  handler.NewOrderHandler(orderService),
		Export: handler.NewExportHandler(orderService, exportService, enqueuer),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
