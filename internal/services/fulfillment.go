package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Siddharth20050904/inventory-management/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/Siddharth20050904/inventory-management/internal/services")

// InventoryLedger is the stock side of the product store.
type InventoryLedger interface {
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
	AdjustStock(ctx context.Context, productID uint, delta int) (int, error)
}

// BalanceTracker maintains each customer's paymentPending total.
type BalanceTracker interface {
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	RecomputeBalance(ctx context.Context, customerID uint) (decimal.Decimal, error)
}

// LineItemInput is one requested order or purchase line.
type LineItemInput struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type stockAdjustment struct {
	ProductID uint
	Delta     int
}

func validateLineItems(items []LineItemInput) error {
	if len(items) == 0 {
		return invalid("items", "at least one item is required")
	}
	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)
		if item.ProductID == 0 {
			return invalid(field+".product_id", "required")
		}
		if item.Quantity <= 0 {
			return invalid(field+".quantity", "must be positive")
		}
		if item.Price.IsNegative() {
			return invalid(field+".price", "must not be negative")
		}
	}
	return nil
}

// loadProducts fetches every distinct product referenced by items in one lookup and fails
// with a NotFoundError for the first id the store does not know.
func loadProducts(ctx context.Context, ledger InventoryLedger, items []LineItemInput) (map[uint]models.Product, error) {
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	products, err := ledger.GetByIDs(ctx, ids)
	if err != nil {
		return nil, &PersistenceError{Op: "load products", Err: err}
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, &NotFoundError{Entity: "product", ID: id}
		}
	}
	return products, nil
}

func productName(item LineItemInput, products map[uint]models.Product) string {
	if strings.TrimSpace(item.ProductName) != "" {
		return item.ProductName
	}
	return products[item.ProductID].Name
}

// addStockSteps adds one saga step per adjustment. Each step undoes only its own delta, so a
// rollback reverses exactly the adjustments that were applied.
func addStockSteps(saga *Saga, name string, ledger InventoryLedger, adjustments []stockAdjustment) {
	for _, adj := range adjustments {
		adj := adj
		saga.Add(SagaStep{
			Name: fmt.Sprintf("%s[product=%d]", name, adj.ProductID),
			Apply: func(ctx context.Context) error {
				if _, err := ledger.AdjustStock(ctx, adj.ProductID, adj.Delta); err != nil {
					return storeError("adjust stock", "product", adj.ProductID, err)
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				_, err := ledger.AdjustStock(ctx, adj.ProductID, -adj.Delta)
				return err
			},
		})
	}
}

func orderItemAdjustments(items []models.OrderItem, sign int) []stockAdjustment {
	adjustments := make([]stockAdjustment, 0, len(items))
	for _, item := range items {
		adjustments = append(adjustments, stockAdjustment{ProductID: item.ProductID, Delta: sign * item.Quantity})
	}
	return adjustments
}

func purchaseItemAdjustments(items []models.PurchaseOrderItem, sign int) []stockAdjustment {
	adjustments := make([]stockAdjustment, 0, len(items))
	for _, item := range items {
		adjustments = append(adjustments, stockAdjustment{ProductID: item.ProductID, Delta: sign * item.Quantity})
	}
	return adjustments
}

// settleBalances recomputes balances after a rolled back operation. Failures are only
// logged: the next successful recompute repairs the total.
func settleBalances(ctx context.Context, tracker BalanceTracker, logger *zap.Logger, customerIDs ...uint) {
	ctx = context.WithoutCancel(ctx)
	seen := make(map[uint]bool, len(customerIDs))
	for _, id := range customerIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		if _, err := tracker.RecomputeBalance(ctx, id); err != nil {
			logger.Warn("balance recompute after rollback failed", zap.Uint("customer_id", id), zap.Error(err))
		}
	}
}

func newReference(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
