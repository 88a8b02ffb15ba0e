// Package main is the entry point for the stockroom API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockroom/internal/domain/activity"
	"stockroom/internal/domain/auth"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/documents/order"
	"stockroom/internal/domain/documents/sale"
	"stockroom/internal/domain/files"
	"stockroom/internal/domain/registers/stock"
	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/blob"
	v1 "stockroom/internal/infrastructure/http/v1"
	"stockroom/internal/infrastructure/numerator"
	"stockroom/internal/infrastructure/storage/postgres"
	"stockroom/internal/infrastructure/storage/postgres/auth_repo"
	"stockroom/internal/infrastructure/storage/postgres/catalog_repo"
	"stockroom/internal/infrastructure/storage/postgres/document_repo"
	"stockroom/internal/infrastructure/storage/postgres/file_repo"
	"stockroom/internal/infrastructure/storage/postgres/register_repo"
	"stockroom/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()
	log.Info("starting stockroom server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Blob store ---
	blobStore, err := newBlobStore(ctx)
	if err != nil {
		log.Fatalw("failed to initialize blob store", "error", err)
	}

	// --- Repositories ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	orderRepo := document_repo.NewOrderRepo(txManager)
	saleRepo := document_repo.NewSaleRepo(txManager)
	stockRepo := register_repo.NewStockRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	fileRepo := file_repo.NewFileRepo(txManager)
	activityRepo, err := postgres.NewActivityRepo(txManager)
	if err != nil {
		log.Fatalw("failed to initialize activity repo", "error", err)
	}

	// --- Services ---
	numeratorSvc := numerator.New(txManager)

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))
	authService := auth.NewService(userRepo, txManager, jwtService, auth.DefaultServiceConfig())

	stockService := stock.NewService(stockRepo, txManager)
	productService := product.NewService(productRepo, txManager, numeratorSvc)
	orderService := order.NewService(orderRepo, numeratorSvc, txManager)
	saleService := sale.NewService(saleRepo, numeratorSvc, txManager, stockService, productService)
	fileService := files.NewService(fileRepo, blobStore, txManager)
	activityService := activity.NewService(activityRepo, txManager)
	reportService := reports.NewService(productService, stockService)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Version:         getEnv("APP_VERSION", "dev"),
		JWTValidator:    jwtService,
		AuthService:     authService,
		ProductService:  productService,
		StockService:    stockService,
		OrderService:    orderService,
		SaleService:     saleService,
		FileService:     fileService,
		ActivityService: activityService,
		ReportService:   reportService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// newBlobStore builds the blob store from environment.
// BLOB_DRIVER=s3 uses S3-compatible object storage, anything else
// falls back to the local filesystem.
func newBlobStore(ctx context.Context) (files.BlobStore, error) {
	if getEnv("BLOB_DRIVER", "fs") == "s3" {
		store, err := blob.NewS3Store(ctx, blob.S3Config{
			Endpoint:     getEnv("S3_ENDPOINT", ""),
			Region:       getEnv("S3_REGION", "us-east-1"),
			Bucket:       mustEnv("S3_BUCKET"),
			AccessKey:    mustEnv("S3_ACCESS_KEY"),
			SecretKey:    mustEnv("S3_SECRET_KEY"),
			UseSSL:       getEnv("S3_USE_SSL", "true") == "true",
			UsePathStyle: getEnv("S3_PATH_STYLE", "true") == "true",
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return blob.NewFSStore(getEnv("BLOB_DIR", "data/blobs"))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
