// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"stockroom/internal/domain/auth"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/infrastructure/storage/postgres"
	"stockroom/internal/infrastructure/storage/postgres/auth_repo"
	"stockroom/internal/infrastructure/storage/postgres/catalog_repo"
	"stockroom/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoProducts(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo products", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	username := getEnv("ADMIN_USERNAME", "admin")
	password := getEnv("ADMIN_PASSWORD", "Admin123!")

	repo := auth_repo.NewUserRepo(txManager)

	exists, err := repo.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if exists {
		log.Infow("admin user already exists", "username", username)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := auth.NewUser(username, string(hash))
	user.DisplayName = "Administrator"
	user.IsAdmin = true

	if err := repo.Create(ctx, user); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Infow("admin user created", "username", username, "id", user.ID)
	return nil
}

func seedDemoProducts(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := catalog_repo.NewProductRepo(txManager)

	demo := []struct {
		code, name, sku, category string
		cost, price               string
	}{
		{"P-00001", "Cardboard Box S", "BOX-S", "packaging", "0.35", "0.90"},
		{"P-00002", "Cardboard Box M", "BOX-M", "packaging", "0.55", "1.40"},
		{"P-00003", "Packing Tape 48mm", "TAPE-48", "consumables", "1.10", "2.50"},
		{"P-00004", "Bubble Wrap 50m", "WRAP-50", "consumables", "8.00", "15.00"},
	}

	for _, d := range demo {
		exists, err := repo.ExistsByCode(ctx, d.code)
		if err != nil {
			return fmt.Errorf("check product %s: %w", d.code, err)
		}
		if exists {
			continue
		}

		item := product.New(d.code, d.name, d.sku)
		item.Category = d.category
		item.UnitCost = decimal.RequireFromString(d.cost)
		item.UnitPrice = decimal.RequireFromString(d.price)

		if err := repo.Create(ctx, item); err != nil {
			return fmt.Errorf("create product %s: %w", d.code, err)
		}
		log.Infow("product created", "code", d.code, "sku", d.sku)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
