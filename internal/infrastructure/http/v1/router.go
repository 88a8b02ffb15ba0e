// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/activity"
	"stockroom/internal/domain/auth"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/documents/order"
	"stockroom/internal/domain/documents/sale"
	"stockroom/internal/domain/files"
	"stockroom/internal/domain/registers/stock"
	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/http/v1/handlers"
	"stockroom/internal/infrastructure/http/v1/middleware"
	"stockroom/internal/infrastructure/storage/postgres"
)

// RouterConfig holds everything the HTTP layer needs.
type RouterConfig struct {
	Pool    *postgres.Pool
	Version string

	// JWTValidator for token validation
	JWTValidator middleware.TokenValidator

	// Domain services
	AuthService     *auth.Service
	ProductService  *product.Service
	StockService    *stock.Service
	OrderService    *order.Service
	SaleService     *sale.Service
	FileService     *files.Service
	ActivityService *activity.Service
	ReportService   *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService, cfg.ActivityService)
	productHandler := handlers.NewProductHandler(base, cfg.ProductService, cfg.StockService, cfg.ActivityService)
	stockHandler := handlers.NewStockHandler(base, cfg.StockService, cfg.ProductService, cfg.ActivityService)
	orderHandler := handlers.NewOrderHandler(base, cfg.OrderService, cfg.ActivityService)
	saleHandler := handlers.NewSaleHandler(base, cfg.SaleService, cfg.ActivityService)
	fileHandler := handlers.NewFileHandler(base, cfg.FileService, cfg.ActivityService)
	activityHandler := handlers.NewActivityHandler(base, cfg.ActivityService)
	reportHandler := handlers.NewReportHandler(base, cfg.ReportService, cfg.OrderService, cfg.SaleService)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Public auth endpoints
		v1.POST("/auth/login", authHandler.Login)

		// Everything else requires a valid token
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		protected.GET("/auth/me", authHandler.Me)

		// User management (admin only)
		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/auth/register", authHandler.Register)
			admin.GET("/users", authHandler.ListUsers)
			admin.DELETE("/users/:id", authHandler.DeleteUser)
		}

		// Product catalog
		products := protected.Group("/products")
		{
			products.GET("", productHandler.List)
			products.POST("", productHandler.Create)
			products.GET("/:id", productHandler.Get)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
			products.GET("/:id/quantity", productHandler.GetQuantity)
			products.PUT("/:id/quantity", productHandler.SetQuantity)
		}

		// Stock register
		stockGroup := protected.Group("/stock")
		{
			stockGroup.GET("/movements", stockHandler.List)
			stockGroup.POST("/movements", stockHandler.RecordMovement)
			stockGroup.GET("/low", stockHandler.LowStock)
			stockGroup.GET("/products/:id", stockHandler.Level)
			stockGroup.GET("/products/:id/movements", stockHandler.History)
		}

		// Order documents
		orders := protected.Group("/orders")
		{
			orders.GET("", orderHandler.List)
			orders.POST("", orderHandler.Create)
			orders.GET("/:id", orderHandler.Get)
			orders.PUT("/:id", orderHandler.Update)
			orders.DELETE("/:id", orderHandler.Delete)
			orders.POST("/:id/status", orderHandler.SetStatus)
		}

		// Sale documents
		sales := protected.Group("/sales")
		{
			sales.GET("", saleHandler.List)
			sales.POST("", saleHandler.Create)
			sales.GET("/:id", saleHandler.Get)
			sales.PUT("/:id", saleHandler.Update)
			sales.DELETE("/:id", saleHandler.Delete)
			sales.POST("/:id/status", saleHandler.SetStatus)
		}

		// Stored files
		fileGroup := protected.Group("/files")
		{
			fileGroup.GET("", fileHandler.List)
			fileGroup.POST("", fileHandler.Upload)
			fileGroup.GET("/:id", fileHandler.Get)
			fileGroup.GET("/:id/content", fileHandler.Download)
			fileGroup.DELETE("/:id", fileHandler.Delete)
		}

		// Activity log
		protected.GET("/activity", activityHandler.Recent)

		// Reports
		reportGroup := protected.Group("/reports")
		{
			reportGroup.GET("/inventory", reportHandler.Inventory)
			reportGroup.GET("/orders/:id", reportHandler.Order)
			reportGroup.GET("/sales/:id", reportHandler.Sale)
		}
	}

	return router
}
