package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/Siddharth20050904/inventory-management/internal/database"
	"github.com/Siddharth20050904/inventory-management/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database named after the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, db *gorm.DB, name string, qty int, cost string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: dec("10"), CostPrice: dec(cost), Quantity: qty}
	require.NoError(t, NewProductRepository(db).Create(context.Background(), p))
	return p
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{Name: name, Email: name + "@example.com", Phone: "0999", Address: "Main St"}
	require.NoError(t, NewCustomerRepository(db).Create(context.Background(), c))
	return c
}

func seedOrder(t *testing.T, db *gorm.DB, customerID uint, number, total, payment string, items ...models.OrderItem) *models.Order {
	t.Helper()
	o := &models.Order{
		OrderNumber:   number,
		CustomerID:    customerID,
		CustomerName:  "c",
		TotalCost:     dec(total),
		Status:        string(models.OrderPending),
		PaymentStatus: payment,
		Items:         items,
	}
	require.NoError(t, NewOrderRepository(db).Create(context.Background(), o))
	return o
}
