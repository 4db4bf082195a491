package services

import (
	"context"
	"strings"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/models"
	"github.com/Siddharth20050904/inventory-management/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type PurchaseOrderInput struct {
	SupplierName   string          `json:"supplier_name"`
	Items          []LineItemInput `json:"items"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Notes          string          `json:"notes"`
	DeliveryDate   *time.Time      `json:"delivery_date"`
	PaymentDueDate *time.Time      `json:"payment_due_date"`
	PaymentStatus  string          `json:"payment_status"`
}

// PurchaseOrderPatch carries the fields to change. Nil fields keep their stored value; a nil
// Items leaves the item set and stock untouched.
type PurchaseOrderPatch struct {
	SupplierName   *string          `json:"supplier_name"`
	Items          []LineItemInput  `json:"items"`
	TotalCost      *decimal.Decimal `json:"total_cost"`
	Notes          *string          `json:"notes"`
	DeliveryDate   *time.Time       `json:"delivery_date"`
	PaymentDueDate *time.Time       `json:"payment_due_date"`
	PaymentStatus  *string          `json:"payment_status"`
	Status         *string          `json:"status"`
}

type PurchaseService interface {
	CreatePurchaseOrder(ctx context.Context, in PurchaseOrderInput) (*models.PurchaseOrder, error)
	UpdatePurchaseOrderDetails(ctx context.Context, id uint, patch PurchaseOrderPatch) (*models.PurchaseOrder, error)
	MarkPurchaseDelivered(ctx context.Context, id uint) (*models.PurchaseOrder, error)
	MarkPurchasePaid(ctx context.Context, id uint) (*models.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id uint) (*models.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, search string, limit, offset int) ([]models.PurchaseOrder, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseOrderRepository
	ledger       InventoryLedger
	logger       *zap.Logger
}

func NewPurchaseService(purchaseRepo repository.PurchaseOrderRepository, ledger InventoryLedger, logger *zap.Logger) PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &purchaseService{purchaseRepo: purchaseRepo, ledger: ledger, logger: logger.Named("purchases")}
}

func (s *purchaseService) buildItems(ctx context.Context, lines []LineItemInput) ([]models.PurchaseOrderItem, error) {
	products, err := loadProducts(ctx, s.ledger, lines)
	if err != nil {
		return nil, err
	}
	items := make([]models.PurchaseOrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.PurchaseOrderItem{
			ProductID:   line.ProductID,
			ProductName: productName(line, products),
			Quantity:    line.Quantity,
			Price:       line.Price,
		})
	}
	return items, nil
}

// CreatePurchaseOrder records a supplier order and adds its quantities to stock.
func (s *purchaseService) CreatePurchaseOrder(ctx context.Context, in PurchaseOrderInput) (po *models.PurchaseOrder, err error) {
	ctx, span := tracer.Start(ctx, "fulfillment.CreatePurchaseOrder")
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(in.SupplierName) == "" {
		return nil, invalid("supplier_name", "required")
	}
	if in.TotalCost.IsNegative() {
		return nil, invalid("total_cost", "must not be negative")
	}
	if err := validateLineItems(in.Items); err != nil {
		return nil, err
	}
	items, err := s.buildItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	po = &models.PurchaseOrder{
		PONumber:       newReference("PO"),
		SupplierName:   in.SupplierName,
		Items:          items,
		TotalCost:      in.TotalCost,
		Status:         string(models.OrderPending),
		PaymentStatus:  in.PaymentStatus,
		Notes:          in.Notes,
		DeliveryDate:   in.DeliveryDate,
		PaymentDueDate: in.PaymentDueDate,
	}
	if po.PaymentStatus == "" {
		po.PaymentStatus = string(models.PaymentUnpaid)
	}
	span.SetAttributes(attribute.Int("order.items", len(items)))

	saga := NewSaga("create_purchase_order", s.logger)
	saga.Add(SagaStep{
		Name: "persist_purchase_order",
		Apply: func(ctx context.Context) error {
			if err := s.purchaseRepo.Create(ctx, po); err != nil {
				return &PersistenceError{Op: "create purchase order", Err: err}
			}
			return nil
		},
		Compensate: func(ctx context.Context) error {
			return s.purchaseRepo.Delete(ctx, po.ID)
		},
	})
	addStockSteps(saga, "receive_stock", s.ledger, purchaseItemAdjustments(po.Items, +1))

	if err := saga.Run(ctx); err != nil {
		return nil, err
	}
	return po, nil
}

// UpdatePurchaseOrderDetails applies patch by recreating the purchase order under its original
// id, number and creation time. When the patch carries items, the old quantities are taken
// back out of stock and the new ones added.
func (s *purchaseService) UpdatePurchaseOrderDetails(ctx context.Context, id uint, patch PurchaseOrderPatch) (updated *models.PurchaseOrder, err error) {
	ctx, span := tracer.Start(ctx, "fulfillment.UpdatePurchaseOrderDetails")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int64("purchase_order.id", int64(id)))

	if patch.SupplierName != nil && strings.TrimSpace(*patch.SupplierName) == "" {
		return nil, invalid("supplier_name", "required")
	}
	if patch.TotalCost != nil && patch.TotalCost.IsNegative() {
		return nil, invalid("total_cost", "must not be negative")
	}
	if patch.Items != nil {
		if err := validateLineItems(patch.Items); err != nil {
			return nil, err
		}
	}

	existing, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("load purchase order", "purchase order", id, err)
	}
	previous := *existing
	previous.Items = append([]models.PurchaseOrderItem(nil), existing.Items...)

	updated = applyPurchasePatch(previous, patch)
	updated.Items = append([]models.PurchaseOrderItem(nil), existing.Items...)

	itemsChanged := patch.Items != nil
	if itemsChanged {
		items, err := s.buildItems(ctx, patch.Items)
		if err != nil {
			return nil, err
		}
		updated.Items = items
	}

	saga := NewSaga("update_purchase_order", s.logger)
	if itemsChanged {
		addStockSteps(saga, "revert_receipt", s.ledger, purchaseItemAdjustments(previous.Items, -1))
	}
	saga.Add(SagaStep{
		Name: "recreate_purchase_order",
		Apply: func(ctx context.Context) error {
			if err := s.purchaseRepo.Recreate(ctx, updated); err != nil {
				return storeError("recreate purchase order", "purchase order", id, err)
			}
			return nil
		},
		Compensate: func(ctx context.Context) error {
			restore := previous
			restore.Items = append([]models.PurchaseOrderItem(nil), previous.Items...)
			return s.purchaseRepo.Recreate(ctx, &restore)
		},
	})
	if itemsChanged {
		addStockSteps(saga, "receive_stock", s.ledger, purchaseItemAdjustments(updated.Items, +1))
	}

	if err := saga.Run(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func applyPurchasePatch(po models.PurchaseOrder, patch PurchaseOrderPatch) *models.PurchaseOrder {
	if patch.SupplierName != nil {
		po.SupplierName = *patch.SupplierName
	}
	if patch.TotalCost != nil {
		po.TotalCost = *patch.TotalCost
	}
	if patch.Notes != nil {
		po.Notes = *patch.Notes
	}
	if patch.DeliveryDate != nil {
		po.DeliveryDate = patch.DeliveryDate
	}
	if patch.PaymentDueDate != nil {
		po.PaymentDueDate = patch.PaymentDueDate
	}
	if patch.PaymentStatus != nil && *patch.PaymentStatus != "" {
		po.PaymentStatus = *patch.PaymentStatus
	}
	if patch.Status != nil && *patch.Status != "" {
		po.Status = *patch.Status
	}
	return &po
}

func (s *purchaseService) MarkPurchaseDelivered(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	if err := s.purchaseRepo.SetStatus(ctx, id, string(models.OrderDelivered)); err != nil {
		return nil, storeError("set purchase order status", "purchase order", id, err)
	}
	return s.GetPurchaseOrder(ctx, id)
}

// MarkPurchasePaid moves an Unpaid purchase order to Paid; an already Paid order is left as is.
func (s *purchaseService) MarkPurchasePaid(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	if _, err := s.purchaseRepo.SetPaymentStatus(ctx, id, string(models.PaymentUnpaid), string(models.PaymentPaid)); err != nil {
		return nil, &PersistenceError{Op: "set purchase payment status", Err: err}
	}
	return s.GetPurchaseOrder(ctx, id)
}

func (s *purchaseService) GetPurchaseOrder(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	po, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("load purchase order", "purchase order", id, err)
	}
	return po, nil
}

func (s *purchaseService) ListPurchaseOrders(ctx context.Context, search string, limit, offset int) ([]models.PurchaseOrder, error) {
	if limit < 0 || offset < 0 {
		return nil, invalid("limit", "limit and offset must not be negative")
	}
	orders, err := s.purchaseRepo.Search(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, &PersistenceError{Op: "list purchase orders", Err: err}
	}
	return orders, nil
}
