package services

import (
	"context"
	"testing"

	"github.com/Siddharth20050904/inventory-management/internal/models"
	"github.com/Siddharth20050904/inventory-management/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPurchaseFixture(t *testing.T) (*fixture, PurchaseService) {
	t.Helper()
	f := newFixture(t)
	return f, NewPurchaseService(repository.NewPurchaseOrderRepository(f.db), f.ledger, nil)
}

func TestCreatePurchaseOrderReceivesStock(t *testing.T) {
	f, svc := newPurchaseFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 2, "1")
	b := f.product(t, "B", 0, "1")

	po, err := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{
		SupplierName: "Weavers Co",
		Items:        []LineItemInput{line(a, 5, "3"), line(b, 4, "2")},
		TotalCost:    dec("23"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, po.PONumber)
	assert.Equal(t, string(models.OrderPending), po.Status)
	assert.Equal(t, string(models.PaymentUnpaid), po.PaymentStatus)
	assert.Equal(t, 7, f.stock(t, a.ID))
	assert.Equal(t, 4, f.stock(t, b.ID))
}

func TestCreatePurchaseOrderRejectsBadInput(t *testing.T) {
	f, svc := newPurchaseFixture(t)
	a := f.product(t, "A", 2, "1")

	_, err := svc.CreatePurchaseOrder(context.Background(), PurchaseOrderInput{Items: []LineItemInput{line(a, 1, "1")}})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "supplier_name", ve.Field)

	_, err = svc.CreatePurchaseOrder(context.Background(), PurchaseOrderInput{
		SupplierName: "x",
		Items:        []LineItemInput{{ProductID: 77, Quantity: 1, Price: dec("1")}},
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 2, f.stock(t, a.ID))
}

func TestCreatePurchaseOrderRollsBackOnStockFailure(t *testing.T) {
	f, svc := newPurchaseFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 2, "1")
	b := f.product(t, "B", 2, "1")
	f.ledger.failOn, f.ledger.failSign = 2, 1

	_, err := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{
		SupplierName: "Weavers Co",
		Items:        []LineItemInput{line(a, 5, "3"), line(b, 4, "2")},
	})
	require.ErrorIs(t, err, errInjected)
	assert.Equal(t, 2, f.stock(t, a.ID))
	assert.Equal(t, 2, f.stock(t, b.ID))

	list, err := svc.ListPurchaseOrders(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdatePurchaseOrderDetailsKeepsIdentity(t *testing.T) {
	f, svc := newPurchaseFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 0, "1")

	po, err := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{SupplierName: "Weavers Co", Items: []LineItemInput{line(a, 5, "3")}})
	require.NoError(t, err)

	notes := "call before delivery"
	updated, err := svc.UpdatePurchaseOrderDetails(ctx, po.ID, PurchaseOrderPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, po.ID, updated.ID)
	assert.Equal(t, po.PONumber, updated.PONumber)
	assert.Equal(t, 5, f.stock(t, a.ID))

	stored, err := svc.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, notes, stored.Notes)
	assert.Equal(t, "Weavers Co", stored.SupplierName)
	assert.Equal(t, po.PONumber, stored.PONumber)
	assert.True(t, stored.CreatedAt.Equal(po.CreatedAt))
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 5, stored.Items[0].Quantity)
}

func TestUpdatePurchaseOrderItemsMovesStock(t *testing.T) {
	f, svc := newPurchaseFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 10, "1")
	b := f.product(t, "B", 10, "1")

	po, err := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{SupplierName: "Weavers Co", Items: []LineItemInput{line(a, 5, "3")}})
	require.NoError(t, err)
	require.Equal(t, 15, f.stock(t, a.ID))

	_, err = svc.UpdatePurchaseOrderDetails(ctx, po.ID, PurchaseOrderPatch{Items: []LineItemInput{line(b, 3, "2")}})
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock(t, a.ID))
	assert.Equal(t, 13, f.stock(t, b.ID))
}

func TestUpdatePurchaseOrderRollsBack(t *testing.T) {
	f, svc := newPurchaseFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 10, "1")
	b := f.product(t, "B", 10, "1")

	po, err := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{SupplierName: "Weavers Co", Items: []LineItemInput{line(a, 5, "3")}})
	require.NoError(t, err)

	f.ledger.failOn, f.ledger.failSign, f.ledger.seen = 1, 1, 0
	_, err = svc.UpdatePurchaseOrderDetails(ctx, po.ID, PurchaseOrderPatch{Items: []LineItemInput{line(b, 3, "2")}})
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, 15, f.stock(t, a.ID))
	assert.Equal(t, 10, f.stock(t, b.ID))
	stored, err := svc.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, a.ID, stored.Items[0].ProductID)
}

func TestPurchaseStatusTransitions(t *testing.T) {
	f, svc := newPurchaseFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 0, "1")

	po, err := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{SupplierName: "Weavers Co", Items: []LineItemInput{line(a, 5, "3")}})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		paid, err := svc.MarkPurchasePaid(ctx, po.ID)
		require.NoError(t, err)
		assert.Equal(t, string(models.PaymentPaid), paid.PaymentStatus)
	}
	delivered, err := svc.MarkPurchaseDelivered(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderDelivered), delivered.Status)
	assert.Equal(t, 5, f.stock(t, a.ID))

	_, err = svc.MarkPurchaseDelivered(ctx, 404)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestListPurchaseOrdersFiltersBySupplier(t *testing.T) {
	f, svc := newPurchaseFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 0, "1")
	for _, supplier := range []string{"Weavers Co", "Dyers Ltd", "weavers guild"} {
		_, err := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{SupplierName: supplier, Items: []LineItemInput{line(a, 1, "1")}})
		require.NoError(t, err)
	}

	list, err := svc.ListPurchaseOrders(ctx, " WEAVERS ", 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.ListPurchaseOrders(ctx, "", -1, 0)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}
