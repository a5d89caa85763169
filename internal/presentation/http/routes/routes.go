package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiprotich/tillpoint-api/internal/config"
	domainRepo "github.com/kiprotich/tillpoint-api/internal/domain/repository"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/handler"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/middleware"
	"github.com/kiprotich/tillpoint-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Session     *handler.SessionHandler
	Cart        *handler.CartHandler
	Payment     *handler.PaymentHandler
	Transaction *handler.TransactionHandler
	Product     *handler.ProductHandler
	Health      *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.POST("/auth/login", h.Auth.Login)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerSessionRoutes(protected, h)
		registerRegisterRoutes(protected, h, deps)
		registerTransactionRoutes(protected, h)
		registerProductRoutes(protected, h)
	}

	return router
}

func registerSessionRoutes(protected *gin.RouterGroup, h *Handlers) {
	sessions := protected.Group("/sessions")
	{
		sessions.POST("/open", h.Session.Open)
		sessions.POST("/:id/close", h.Session.Close)
		sessions.GET("/:id", h.Session.Get)
		sessions.GET("/:id/summary", h.Session.Summary)
		sessions.GET("/:id/transactions", h.Transaction.ListBySession)
	}
}

func registerRegisterRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	registers := protected.Group("/registers/:register_number")
	{
		registers.GET("/session", h.Session.Active)

		registers.GET("/cart", h.Cart.View)
		registers.DELETE("/cart", h.Cart.Clear)
		registers.POST("/cart/items", h.Cart.AddItem)
		registers.PUT("/cart/items/:index", h.Cart.UpdateLine)
		registers.PUT("/cart/items/:index/discount", h.Cart.SetDiscount)
		registers.DELETE("/cart/items/:index", h.Cart.RemoveLine)

		registers.POST("/payment", h.Payment.Begin)
		registers.POST("/payment/card-result", h.Payment.CardResult)
		registers.POST("/payment/transfer-initiated", h.Payment.TransferInitiated)

		// Checkout requires an idempotency key so a retried POST cannot ring
		// the same sale twice
		registers.POST("/transactions",
			middleware.IdempotencyRequired(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}),
			h.Transaction.Record)
	}
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers) {
	transactions := protected.Group("/transactions")
	{
		transactions.GET("/offline", h.Transaction.ListOffline)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.PUT("/:id/void", middleware.RequireRole("manager", "admin"), h.Transaction.Void)
		transactions.GET("/:id/receipt", h.Transaction.Receipt)
		transactions.POST("/:id/receipt/print", h.Transaction.PrintReceipt)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/search", h.Product.Search)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/:id", h.Product.Get)
		products.POST("", middleware.RequireRole("manager", "admin"), h.Product.Create)
		products.PUT("/:id", middleware.RequireRole("manager", "admin"), h.Product.Update)
		products.DELETE("/:id", middleware.RequireRole("manager", "admin"), h.Product.Delete)
	}
}
