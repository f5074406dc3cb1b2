package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirtishiva/craftbiz-backend/config"
	"github.com/amirtishiva/craftbiz-backend/internal/app/controller"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/internal/app/service"
	"github.com/amirtishiva/craftbiz-backend/internal/db"
	"github.com/amirtishiva/craftbiz-backend/internal/middleware"
	"github.com/amirtishiva/craftbiz-backend/internal/router"
	"github.com/amirtishiva/craftbiz-backend/internal/scheduler"
	"github.com/amirtishiva/craftbiz-backend/internal/storage"
	ws "github.com/amirtishiva/craftbiz-backend/internal/websocket"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"github.com/amirtishiva/craftbiz-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting CraftBiz Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the token blacklist and the search/trending caches.
	// The server degrades without it instead of refusing to start.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, caching and token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	sellerRepo := repository.NewSellerRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	wishlistRepo := repository.NewWishlistRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	customRequestRepo := repository.NewCustomRequestRepository(db.GetDB())
	generationRepo := repository.NewGenerationRepository(db.GetDB())
	pushRepo := repository.NewPushSubscriptionRepository(db.GetDB())

	// Websocket hub for live notifications
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cartRepo,
		wishlistRepo,
		pushRepo,
		sellerRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, db.GetDB())
	sellerService := service.NewSellerService(sellerRepo, productRepo, orderRepo, cfg.Maps.APIKey)
	notificationService := service.NewNotificationService(pushRepo, hub)
	customRequestService := service.NewCustomRequestService(customRequestRepo, sellerRepo, productRepo, notificationService)
	aiService := service.NewAIService(
		generationRepo,
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.APIKey,
		cfg.OpenAI.ChatModel,
		cfg.OpenAI.ImageModel,
	)

	// S3 storage for direct uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService, sellerService)
	cartController := controller.NewCartController(cartService)
	wishlistController := controller.NewWishlistController(wishlistService)
	orderController := controller.NewOrderController(orderService)
	sellerController := controller.NewSellerController(sellerService)
	customRequestController := controller.NewCustomRequestController(customRequestService)
	generateController := controller.NewGenerateController(aiService, cfg.Maps.APIKey)
	uploadController := controller.NewUploadController(s3Storage)
	notificationController := controller.NewNotificationController(notificationService, hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Trending list refresh
	trendingScheduler := scheduler.NewTrendingScheduler(productService)
	if err := trendingScheduler.Start(); err != nil {
		logger.Warn("Trending scheduler failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer trendingScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		wishlistController,
		orderController,
		sellerController,
		customRequestController,
		generateController,
		uploadController,
		notificationController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
