// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/anondesigns/dsm-backend/internal/config"
	"github.com/anondesigns/dsm-backend/internal/handlers"
	"github.com/anondesigns/dsm-backend/internal/middleware"
	"github.com/anondesigns/dsm-backend/internal/services"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) (*gin.Engine, error) {
	// Initialize services
	notificationService := services.NewNotificationService(db, logger)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage service: %w", err)
	}

	authService := services.NewAuthService(db, cfg)
	designService := services.NewDesignService(db, cfg, storageService, notificationService)
	purchaseService := services.NewPurchaseService(db, cfg, storageService, notificationService)
	chatService := services.NewChatService(db, notificationService)
	adminService := services.NewAdminService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	designHandler := handlers.NewDesignHandler(designService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	chatHandler := handlers.NewChatHandler(chatService)
	adminHandler := handlers.NewAdminHandler(designService, adminService)
	webhookHandler := handlers.NewWebhookHandler(cfg, purchaseService, logger)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db, logger))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Design routes
		designs := v1.Group("/designs")
		{
			designs.GET("", middleware.OptionalAuth(), designHandler.List)

			protected := designs.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("/mine", designHandler.Mine)
				protected.POST("/submit", middleware.UploadRateLimit(), designHandler.Submit)
			}

			// Parameterized route last so /mine and /submit win
			designs.GET("/:id", middleware.OptionalAuth(), designHandler.Get)
		}

		// Moderation and admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired())
		admin.Use(middleware.AdminRequired())
		{
			admin.GET("/designs/pending", adminHandler.PendingDesigns)
			admin.POST("/designs/approve", adminHandler.ApproveDesign)
			admin.POST("/designs/reject", adminHandler.RejectDesign)
			admin.GET("/dashboard/stats", adminHandler.DashboardStats)
		}

		// Messaging routes
		chat := v1.Group("/chat")
		chat.Use(middleware.AuthRequired())
		{
			chat.POST("/start", chatHandler.Start)
			chat.POST("/message", middleware.ChatRateLimit(), chatHandler.PostMessage)
			chat.POST("/design/:designId/message", middleware.ChatRateLimit(), chatHandler.PostDesignMessage)
			chat.GET("/conversations", chatHandler.ListConversations)
			chat.GET("/conversations/:id/messages", chatHandler.ListMessages)
			chat.POST("/conversations/:id/read", chatHandler.MarkRead)
		}

		// Checkout and purchase routes
		checkout := v1.Group("/checkout")
		checkout.Use(middleware.AuthRequired())
		{
			checkout.POST("/session", purchaseHandler.CreateCheckoutSession)
		}

		purchases := v1.Group("/purchases")
		purchases.Use(middleware.AuthRequired())
		{
			purchases.POST("", purchaseHandler.DemoPurchase)
			purchases.GET("", purchaseHandler.List)
			purchases.GET("/:id/download", purchaseHandler.Download)
		}

		transactions := v1.Group("/transactions")
		transactions.Use(middleware.AuthRequired())
		{
			transactions.POST("/:id/release", purchaseHandler.ReleaseEscrow)
		}

		// Payment webhooks (signature-verified, no auth middleware)
		v1.POST("/payments/webhook", webhookHandler.HandleStripe)
	}

	return r, nil
}
