package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/cache"
	"github.com/Siddharth20050904/inventory-management/internal/models"
	"github.com/Siddharth20050904/inventory-management/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache keeps JSON in a map and ignores TTLs.
type memoryCache struct {
	entries map[string][]byte
	readErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	if c.readErr != nil {
		return c.readErr
	}
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func newReportFixture(t *testing.T, c cache.Cache, ttl time.Duration, now time.Time) (*fixture, ReportService) {
	t.Helper()
	f := newFixture(t)
	svc := NewReportService(repository.NewReportRepository(f.db), f.ordersDB, f.products, f.customers, c, ttl, nil)
	svc.(*reportService).now = func() time.Time { return now }
	return f, svc
}

func (f *fixture) orderAt(t *testing.T, c *models.Customer, at time.Time, total, profit string, paid bool) *models.Order {
	t.Helper()
	status := string(models.PaymentUnpaid)
	if paid {
		status = string(models.PaymentPaid)
	}
	o := &models.Order{
		OrderNumber:   newReference("ORD"),
		CustomerID:    c.ID,
		CustomerName:  c.Name,
		ContactNumber: c.Phone,
		Email:         c.Email,
		TotalCost:     dec(total),
		Profit:        dec(profit),
		Status:        string(models.OrderPending),
		PaymentStatus: status,
		CreatedAt:     at,
	}
	require.NoError(t, f.ordersDB.Create(context.Background(), o))
	_, err := f.customers.RecomputeBalance(context.Background(), c.ID)
	require.NoError(t, err)
	return o
}

func TestSalesAndProfitMonthly(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	f, svc := newReportFixture(t, nil, 0, now)
	c := f.customer(t, "asha")
	f.orderAt(t, c, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), "100", "40", false)
	f.orderAt(t, c, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), "20", "5", true)
	f.orderAt(t, c, time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC), "50", "10", false)
	f.orderAt(t, c, time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC), "999", "999", false)

	points, err := svc.SalesAndProfit(context.Background(), RangeMonthly)
	require.NoError(t, err)
	require.Len(t, points, 12)
	assert.Equal(t, "Apr 2025", points[0].Name)
	assert.Equal(t, "Mar 2026", points[11].Name)
	assert.True(t, points[11].Sales.Equal(dec("120")))
	assert.True(t, points[11].Profit.Equal(dec("45")))
	assert.True(t, points[9].Sales.Equal(dec("50")))
	assert.True(t, points[0].Sales.IsZero())
}

func TestSalesAndProfitDaily(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	f, svc := newReportFixture(t, nil, 0, now)
	c := f.customer(t, "asha")
	f.orderAt(t, c, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC), "20", "5", false)
	f.orderAt(t, c, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), "70", "7", false)

	points, err := svc.SalesAndProfit(context.Background(), RangeDaily)
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.Equal(t, "Mon 09 Mar", points[0].Name)
	assert.Equal(t, "Sun 15 Mar", points[6].Name)
	assert.True(t, points[5].Sales.Equal(dec("20")))
	assert.True(t, points[6].Sales.IsZero())

	_, err = svc.SalesAndProfit(context.Background(), SalesRange("yearly"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestDashboardIsCachedUntilInvalidated(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	mem := newMemoryCache()
	f, svc := newReportFixture(t, mem, time.Minute, now)
	ctx := context.Background()
	c := f.customer(t, "asha")
	f.product(t, "A", 1, "1")
	f.orderAt(t, c, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), "100", "40", false)
	f.orderAt(t, c, time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), "30", "3", true)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, d.RevenueThisMonth.Equal(dec("100")))
	assert.EqualValues(t, 2, d.PendingOrders)
	assert.EqualValues(t, 1, d.ProductCount)
	assert.True(t, d.TotalOutstanding.Equal(dec("100")))
	assert.Len(t, d.RecentOrders, 2)
	assert.Contains(t, mem.entries, dashboardCacheKey)

	f.product(t, "B", 1, "1")
	cached, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cached.ProductCount)

	svc.InvalidateDashboard(ctx)
	fresh, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, fresh.ProductCount)
}

func TestDashboardSurvivesCacheErrors(t *testing.T) {
	mem := newMemoryCache()
	mem.readErr = errors.New("redis unavailable")
	f, svc := newReportFixture(t, mem, time.Minute, time.Now())
	f.product(t, "A", 1, "1")

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.ProductCount)
}

func TestPendingPaymentsListsUnpaidOrders(t *testing.T) {
	f, svc := newReportFixture(t, nil, 0, time.Now())
	c := f.customer(t, "asha")
	unpaid := f.orderAt(t, c, time.Now(), "10", "1", false)
	f.orderAt(t, c, time.Now(), "20", "2", true)

	orders, err := svc.PendingPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, unpaid.ID, orders[0].ID)
}
