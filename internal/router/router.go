// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/megano/storefront/internal/config"
	"github.com/megano/storefront/internal/handlers"
	"github.com/megano/storefront/internal/middleware"
	"github.com/megano/storefront/internal/services"
	"github.com/megano/storefront/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg, notificationService)
	userService := services.NewUserService(db)
	storeService := services.NewStoreService(db)
	catalogService := services.NewCatalogService(db, notificationService)
	listingService := services.NewListingService(db)
	discountService := services.NewDiscountService(db)
	adminService := services.NewAdminService(db, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, storageService)
	storeHandler := handlers.NewStoreHandler(storeService, discountService, storageService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, storageService)
	listingHandler := handlers.NewListingHandler(listingService)
	discountHandler := handlers.NewDiscountHandler(discountService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

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
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User account routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.PUT("/profile", userHandler.UpdateProfile)
			users.POST("/upload-avatar", middleware.UploadRateLimit(), userHandler.UploadAvatar)
			users.DELETE("/account", userHandler.DeleteAccount)
			users.POST("/seller-application", adminHandler.SubmitSellerApplication)
		}

		// Public catalog routes
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/categories", catalogHandler.GetCategories)
			catalog.GET("/products", middleware.OptionalAuth(), catalogHandler.SearchProducts)
			catalog.GET("/products/:slug", middleware.OptionalAuth(), catalogHandler.GetProduct)
		}

		// Public store pages
		stores := v1.Group("/stores")
		{
			stores.GET("/:slug", middleware.OptionalAuth(), storeHandler.GetStore)
		}

		// Public discount pages
		discounts := v1.Group("/discounts")
		{
			discounts.GET("", discountHandler.GetCurrentDiscounts)
			discounts.GET("/:slug", discountHandler.GetDiscountDetail)
		}

		// Seller room
		seller := v1.Group("/seller")
		seller.Use(middleware.AuthRequired(), middleware.SellerRequired())
		{
			sellerStores := seller.Group("/stores")
			{
				sellerStores.GET("", storeHandler.GetMyStores)
				sellerStores.POST("", storeHandler.CreateStore)
				sellerStores.PUT("/:id", storeHandler.UpdateStore)
				sellerStores.DELETE("/:id", storeHandler.DeleteStore)
				sellerStores.POST("/:id/logo", middleware.UploadRateLimit(), storeHandler.UploadLogo)
			}

			sellerListings := seller.Group("/listings")
			{
				sellerListings.GET("", listingHandler.GetMyListings)
				sellerListings.POST("", listingHandler.CreateListing)
				sellerListings.GET("/:id", listingHandler.GetListing)
				sellerListings.PUT("/:id", listingHandler.UpdateListing)
				sellerListings.DELETE("/:id", listingHandler.DeleteListing)
			}

			sellerRequests := seller.Group("/product-requests")
			{
				sellerRequests.POST("", catalogHandler.SubmitProductRequest)
				sellerRequests.POST("/upload-images", middleware.UploadRateLimit(), catalogHandler.UploadProductImages)
			}
		}

		// Manager moderation
		manager := v1.Group("/manager")
		manager.Use(middleware.AuthRequired(), middleware.ManagerRequired())
		{
			managerRequests := manager.Group("/product-requests")
			{
				managerRequests.GET("", catalogHandler.GetProductRequests)
				managerRequests.POST("/:id/approve", catalogHandler.ApproveProductRequest)
				managerRequests.POST("/:id/reject", catalogHandler.RejectProductRequest)
			}

			managerDiscounts := manager.Group("/discounts")
			{
				managerDiscounts.POST("", discountHandler.CreateDiscount)
				managerDiscounts.PUT("/:id", discountHandler.UpdateDiscount)
				managerDiscounts.DELETE("/:id", discountHandler.DeleteDiscount)
			}
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/audit-logs", adminHandler.GetAuditLogs)

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/status", adminHandler.UpdateUserStatus)
				adminUsers.PUT("/:id/role", adminHandler.UpdateUserRole)
			}

			adminApplications := admin.Group("/seller-applications")
			{
				adminApplications.GET("", adminHandler.GetSellerApplications)
				adminApplications.POST("/:id/approve", adminHandler.ApproveSellerApplication)
				adminApplications.POST("/:id/reject", adminHandler.RejectSellerApplication)
			}
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
