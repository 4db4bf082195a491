package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCreateWithItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	c := seedCustomer(t, db, "alice")
	p := seedProduct(t, db, "Widget", 5, "3")

	o := seedOrder(t, db, c.ID, "ORD-1", "20", string(models.PaymentUnpaid),
		models.OrderItem{ProductID: p.ID, ProductName: "Widget", Quantity: 2, Price: dec("10"), Cost: dec("3")})

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.Items[0].Cost.Equal(dec("3")))
	assert.True(t, got.IsUnpaid())
}

func TestReplaceOrderItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "alice")
	a := seedProduct(t, db, "A", 5, "1")
	b := seedProduct(t, db, "B", 5, "1")
	o := seedOrder(t, db, c.ID, "ORD-1", "20", string(models.PaymentUnpaid),
		models.OrderItem{ProductID: a.ID, ProductName: "A", Quantity: 2, Price: dec("10")})

	o.TotalCost = dec("45")
	o.Notes = "changed"
	o.Items = []models.OrderItem{
		{ProductID: b.ID, ProductName: "B", Quantity: 3, Price: dec("10")},
		{ProductID: a.ID, ProductName: "A", Quantity: 1, Price: dec("15")},
	}
	require.NoError(t, repo.ReplaceOrderItems(ctx, o))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Notes)
	assert.True(t, got.TotalCost.Equal(dec("45")))
	require.Len(t, got.Items, 2)

	items, err := repo.GetItems(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestReplaceOrderItemsUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	err := NewOrderRepository(db).ReplaceOrderItems(context.Background(), &models.Order{ID: 12, OrderNumber: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetPaymentStatusIsConditional(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "alice")
	o := seedOrder(t, db, c.ID, "ORD-1", "20", string(models.PaymentUnpaid))

	changed, err := repo.SetPaymentStatus(ctx, o.ID, string(models.PaymentUnpaid), string(models.PaymentPaid))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.SetPaymentStatus(ctx, o.ID, string(models.PaymentUnpaid), string(models.PaymentPaid))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = repo.SetPaymentStatus(ctx, 404, string(models.PaymentUnpaid), string(models.PaymentPaid))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestOrderDeleteRemovesItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "alice")
	p := seedProduct(t, db, "Widget", 5, "3")
	o := seedOrder(t, db, c.ID, "ORD-1", "20", string(models.PaymentUnpaid),
		models.OrderItem{ProductID: p.ID, ProductName: "Widget", Quantity: 2, Price: dec("10")})

	require.NoError(t, repo.Delete(ctx, o.ID))

	_, err := repo.GetByID(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	count, err := repo.CountItemsByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.Delete(ctx, o.ID), ErrNotFound)
}

func TestOrderQueries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "alice")

	old := seedOrder(t, db, c.ID, "ORD-OLD", "5", string(models.PaymentPaid))
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().AddDate(0, 0, -60)).Error)
	seedOrder(t, db, c.ID, "ORD-NEW", "7", string(models.PaymentUnpaid))
	require.NoError(t, repo.SetStatus(ctx, old.ID, string(models.OrderDelivered)))

	recent, err := repo.GetRecent(ctx, time.Now().AddDate(0, 0, -30), 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "ORD-NEW", recent[0].OrderNumber)

	pending, err := repo.CountByStatus(ctx, string(models.OrderPending))
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)

	unpaid, err := repo.GetUnpaid(ctx)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)

	n, err := repo.CountByCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	assert.ErrorIs(t, repo.SetStatus(ctx, 999, string(models.OrderDelivered)), ErrNotFound)
}
