package router

import (
	"github.com/amirtishiva/craftbiz-backend/config"
	"github.com/amirtishiva/craftbiz-backend/internal/app/controller"
	"github.com/amirtishiva/craftbiz-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController          *controller.AuthController
	productController       *controller.ProductController
	cartController          *controller.CartController
	wishlistController      *controller.WishlistController
	orderController         *controller.OrderController
	sellerController        *controller.SellerController
	customRequestController *controller.CustomRequestController
	generateController      *controller.GenerateController
	uploadController        *controller.UploadController
	notificationController  *controller.NotificationController
	authMiddleware          *middleware.AuthMiddleware
	config                  *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	wishlistController *controller.WishlistController,
	orderController *controller.OrderController,
	sellerController *controller.SellerController,
	customRequestController *controller.CustomRequestController,
	generateController *controller.GenerateController,
	uploadController *controller.UploadController,
	notificationController *controller.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:          authController,
		productController:       productController,
		cartController:          cartController,
		wishlistController:      wishlistController,
		orderController:         orderController,
		sellerController:        sellerController,
		customRequestController: customRequestController,
		generateController:      generateController,
		uploadController:        uploadController,
		notificationController:  notificationController,
		authMiddleware:          authMiddleware,
		config:                  cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "CraftBiz API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
			auth.DELETE("/me", r.authMiddleware.Authenticate(), r.authController.DeleteAccount)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/trending", r.productController.GetTrending)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("seller", "admin"),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("seller", "admin"),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("seller", "admin"),
				r.productController.DeleteProduct,
			)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:productId", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		wishlist := v1.Group("/wishlist")
		wishlist.Use(r.authMiddleware.Authenticate())
		{
			wishlist.GET("", r.wishlistController.GetWishlist)
			wishlist.POST("/toggle", r.wishlistController.ToggleWishlist)
			wishlist.DELETE("/:productId", r.wishlistController.RemoveFromWishlist)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("", r.orderController.CreateOrder)
		}

		v1.GET("/sellers/:slug", r.sellerController.GetProfileBySlug)

		seller := v1.Group("/seller")
		seller.Use(r.authMiddleware.Authenticate())
		{
			seller.POST("/profile", r.sellerController.CreateProfile)
			seller.GET("/profile", r.sellerController.GetMyProfile)
			seller.PUT("/profile", r.sellerController.UpdateProfile)
			seller.GET("/dashboard", r.sellerController.GetDashboard)
			seller.GET("/export.xlsx", r.sellerController.ExportCatalog)
			seller.GET("/custom-requests", r.customRequestController.ListIncomingRequests)
			seller.PUT("/custom-requests/:id", r.customRequestController.UpdateStatus)
		}

		customRequests := v1.Group("/custom-requests")
		customRequests.Use(r.authMiddleware.Authenticate())
		{
			customRequests.GET("", r.customRequestController.ListMyRequests)
			customRequests.POST("", r.customRequestController.CreateRequest)
		}

		generate := v1.Group("/generate")
		generate.Use(r.authMiddleware.Authenticate())
		{
			generate.POST("/business-plan", r.generateController.GenerateBusinessPlan)
			generate.GET("/business-plans", r.generateController.ListBusinessPlans)
			generate.POST("/marketing-content", r.generateController.GenerateMarketingContent)
			generate.GET("/marketing-content", r.generateController.ListMarketingContent)
			generate.POST("/refine-prompt", r.generateController.RefinePrompt)
			generate.POST("/logo", r.generateController.GenerateLogo)
			generate.POST("/mockup", r.generateController.GenerateMockup)
			generate.POST("/scene", r.generateController.GenerateScene)
			generate.GET("/assets", r.generateController.ListAssets)
			generate.DELETE("/assets/:id", r.generateController.DeleteAsset)
		}

		v1.POST("/geocode", r.authMiddleware.Authenticate(), r.generateController.GeocodeAddress)

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
		{
			uploads.POST("/presign", r.uploadController.Presign)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.POST("/subscribe", r.notificationController.Subscribe)
			notifications.POST("/unsubscribe", r.notificationController.Unsubscribe)
			notifications.GET("/ws", r.notificationController.Connect)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
