package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiprotich/tillpoint-api/internal/application/service"
	"github.com/kiprotich/tillpoint-api/internal/config"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/internal/infrastructure/database"
	"github.com/kiprotich/tillpoint-api/internal/infrastructure/gateway"
	"github.com/kiprotich/tillpoint-api/internal/infrastructure/repository"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/handler"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/routes"
	"github.com/kiprotich/tillpoint-api/pkg/printer"
	"github.com/kiprotich/tillpoint-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize upstream gateway client
	gatewayClient := gateway.NewClient(gateway.Config{
		PrimaryURL:       cfg.Gateway.PrimaryURL,
		SecondaryURL:     cfg.Gateway.SecondaryURL,
		Timeout:          time.Duration(cfg.Gateway.TimeoutMS) * time.Millisecond,
		BreakerThreshold: cfg.Gateway.BreakerThreshold,
		BreakerCooldown:  cfg.Gateway.BreakerCooldown,
	})

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo)
	sessionService := service.NewSessionService(sessionRepo, transactionRepo)
	cartService := service.NewCartService(productRepo)
	paymentService := service.NewPaymentService()
	saleService := service.NewSaleService(transactionRepo, sessionRepo, productRepo, cartService, paymentService, gatewayClient)
	receiptService := service.NewReceiptService(transactionRepo, userRepo, thermalPrinter, entity.ReceiptHeader{
		StoreName: cfg.Store.Name,
		Address:   cfg.Store.Address,
		Phone:     cfg.Store.Phone,
		TaxID:     cfg.Store.TaxID,
	})

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Session:     handler.NewSessionHandler(sessionService),
		Cart:        handler.NewCartHandler(cartService),
		Payment:     handler.NewPaymentHandler(paymentService),
		Transaction: handler.NewTransactionHandler(saleService, receiptService),
		Product:     handler.NewProductHandler(productService),
		Health:      handler.NewHealthHandler(gatewayClient, receiptService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
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
