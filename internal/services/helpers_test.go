package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Siddharth20050904/inventory-management/internal/database"
	"github.com/Siddharth20050904/inventory-management/internal/models"
	"github.com/Siddharth20050904/inventory-management/internal/notify"
	"github.com/Siddharth20050904/inventory-management/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errInjected = errors.New("injected failure")

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

// fixture wires the engine to real sqlite-backed repositories. The ledger and order
// repository are wrapped so tests can inject failures.
type fixture struct {
	db        *gorm.DB
	products  repository.ProductRepository
	customers repository.CustomerRepository
	ordersDB  repository.OrderRepository
	ledger    *faultyLedger
	orders    *faultyOrders
	notifier  *recordingNotifier
	service   OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	f := &fixture{
		db:        db,
		products:  repository.NewProductRepository(db),
		customers: repository.NewCustomerRepository(db),
		ordersDB:  repository.NewOrderRepository(db),
		notifier:  &recordingNotifier{},
	}
	f.ledger = &faultyLedger{InventoryLedger: f.products}
	f.orders = &faultyOrders{OrderRepository: f.ordersDB}
	f.service = NewOrderService(f.orders, f.ledger, f.customers, f.notifier, zap.NewNop())
	return f
}

func (f *fixture) product(t *testing.T, name string, qty int, cost string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: dec("99"), CostPrice: dec(cost), Quantity: qty}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) customer(t *testing.T, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{Name: name, Email: name + "@example.com", Phone: "09876543210", Address: "Main St"}
	require.NoError(t, f.customers.Create(context.Background(), c))
	return c
}

func (f *fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func (f *fixture) balance(t *testing.T, id uint) decimal.Decimal {
	t.Helper()
	c, err := f.customers.GetByID(context.Background(), id)
	require.NoError(t, err)
	return c.PaymentPending
}

// faultyLedger fails the failOn-th AdjustStock call (1-based) whose delta has the sign of
// failSign. Zero failOn disables injection. Compensating calls go through untouched
// unless failCompensation is set.
type faultyLedger struct {
	InventoryLedger
	mu               sync.Mutex
	failOn           int
	failSign         int
	seen             int
	failCompensation bool
	failing          bool
}

func (l *faultyLedger) AdjustStock(ctx context.Context, productID uint, delta int) (int, error) {
	l.mu.Lock()
	if l.failing && l.failCompensation {
		l.mu.Unlock()
		return 0, errInjected
	}
	if l.failOn > 0 && sign(delta) == l.failSign {
		l.seen++
		if l.seen == l.failOn {
			l.failing = true
			l.mu.Unlock()
			return 0, errInjected
		}
	}
	l.mu.Unlock()
	return l.InventoryLedger.AdjustStock(ctx, productID, delta)
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}

type faultyOrders struct {
	repository.OrderRepository
	failReplace int
	replaces    int
	failCreate  bool
}

func (o *faultyOrders) Create(ctx context.Context, order *models.Order) error {
	if o.failCreate {
		return errInjected
	}
	return o.OrderRepository.Create(ctx, order)
}

// ReplaceOrderItems fails on the failReplace-th call.
func (o *faultyOrders) ReplaceOrderItems(ctx context.Context, order *models.Order) error {
	o.replaces++
	if o.failReplace > 0 && o.replaces == o.failReplace {
		return errInjected
	}
	return o.OrderRepository.ReplaceOrderItems(ctx, order)
}

type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []notify.OrderConfirmation
	reminders     []notify.PaymentReminder
	err           error
}

func (n *recordingNotifier) SendOrderConfirmation(_ context.Context, msg notify.OrderConfirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, msg)
	return n.err
}

func (n *recordingNotifier) SendPaymentReminder(_ context.Context, msg notify.PaymentReminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, msg)
	return n.err
}
