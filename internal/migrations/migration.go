package migrations

import (
	"context"
	"errors"

	"github.com/Siddharth20050904/inventory-management/internal/database"
	"github.com/Siddharth20050904/inventory-management/internal/models"
	"github.com/Siddharth20050904/inventory-management/internal/repository"
	"github.com/Siddharth20050904/inventory-management/internal/services"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunMigrations brings the schema up to date. Existing data is kept.
func RunMigrations(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("running database migrations")
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	logger.Info("database migrations completed")
	return nil
}

type SeedOptions struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	DemoCatalog   bool
}

// Seed creates the default admin and, when asked, a small demo catalog. It is safe to run
// more than once: anything that already exists is left alone.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions, logger *zap.Logger) error {
	if err := seedAdmin(ctx, db, opts, logger); err != nil {
		return err
	}
	if opts.DemoCatalog {
		return seedCatalog(ctx, db, logger)
	}
	return nil
}

func seedAdmin(ctx context.Context, db *gorm.DB, opts SeedOptions, logger *zap.Logger) error {
	if opts.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}
	adminRepo := repository.NewAdminRepository(db)
	if _, err := adminRepo.GetByEmail(ctx, opts.AdminEmail); err == nil {
		logger.Info("admin already exists", zap.String("email", opts.AdminEmail))
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	username := opts.AdminUsername
	if username == "" {
		username = "admin"
	}
	if _, err := services.NewAdminService(adminRepo).Register(ctx, username, opts.AdminEmail, opts.AdminPassword); err != nil {
		return err
	}
	logger.Info("admin created", zap.String("username", username), zap.String("email", opts.AdminEmail))
	return nil
}

func seedCatalog(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	productRepo := repository.NewProductRepository(db)
	count, err := productRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("catalog already populated", zap.Int64("products", count))
		return nil
	}

	catalog := services.NewCatalogService(productRepo, repository.NewCustomerRepository(db),
		repository.NewOrderRepository(db), repository.NewPurchaseOrderRepository(db), logger)

	products := []models.Product{
		{Name: "Cotton Saree", Price: decimal.NewFromInt(1200), CostPrice: decimal.NewFromInt(850), Quantity: 40, Description: "Handloom cotton, 6m"},
		{Name: "Silk Dupatta", Price: decimal.NewFromInt(650), CostPrice: decimal.NewFromInt(420), Quantity: 25, Description: "Pure silk"},
		{Name: "Kurta Set", Price: decimal.NewFromInt(1500), CostPrice: decimal.NewFromInt(1100), Quantity: 18},
	}
	for i := range products {
		if err := catalog.CreateProduct(ctx, &products[i]); err != nil {
			return err
		}
	}

	customer := &models.Customer{Name: "Walk-in Customer", Email: "walkin@example.com", Phone: "0000000000", Address: "Store counter"}
	if err := catalog.CreateCustomer(ctx, customer); err != nil {
		return err
	}
	logger.Info("demo catalog created", zap.Int("products", len(products)))
	return nil
}
