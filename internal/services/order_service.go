package services

import (
	"context"
	"strings"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/models"
	"github.com/Siddharth20050904/inventory-management/internal/notify"
	"github.com/Siddharth20050904/inventory-management/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OrderInput is the desired state of a sales order. TotalCost is trusted as given.
type OrderInput struct {
	CustomerID     uint            `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	ContactNumber  string          `json:"contact_number"`
	Email          string          `json:"email"`
	Items          []LineItemInput `json:"items"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Notes          string          `json:"notes"`
	DeliveryDate   *time.Time      `json:"delivery_date"`
	PaymentDueDate *time.Time      `json:"payment_due_date"`
	PaymentStatus  string          `json:"payment_status"`
	Status         string          `json:"status"`
	BroughtBy      string          `json:"brought_by"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, in OrderInput) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uint, in OrderInput) (*models.Order, error)
	MarkDelivered(ctx context.Context, orderID uint) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID uint) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID uint) error

	GetOrder(ctx context.Context, orderID uint) (*models.Order, error)
	ListRecentOrders(ctx context.Context, days int) ([]models.Order, error)
	ListOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	ledger    InventoryLedger
	balances  BalanceTracker
	notifier  notify.Notifier
	logger    *zap.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, ledger InventoryLedger, balances BalanceTracker, notifier notify.Notifier, logger *zap.Logger) OrderService {
	if notifier == nil {
		notifier = notify.Noop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &orderService{
		orderRepo: orderRepo,
		ledger:    ledger,
		balances:  balances,
		notifier:  notifier,
		logger:    logger.Named("orders"),
	}
}

func validateOrderInput(in OrderInput) error {
	if in.CustomerID == 0 {
		return invalid("customer_id", "required")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return invalid("customer_name", "required")
	}
	if in.TotalCost.IsNegative() {
		return invalid("total_cost", "must not be negative")
	}
	return validateLineItems(in.Items)
}

// buildItems turns the requested lines into order items with their cost snapshot taken from
// the products as they are now, and returns the resulting profit.
func (s *orderService) buildItems(ctx context.Context, lines []LineItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	products, err := loadProducts(ctx, s.ledger, lines)
	if err != nil {
		return nil, decimal.Zero, err
	}
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: productName(line, products),
			Quantity:    line.Quantity,
			Price:       line.Price,
		})
	}
	profit := SnapshotCosts(items, costBasisOf(products))
	return items, profit, nil
}

func applyOrderInput(order *models.Order, in OrderInput) {
	order.CustomerID = in.CustomerID
	order.CustomerName = in.CustomerName
	order.ContactNumber = in.ContactNumber
	order.Email = in.Email
	order.TotalCost = in.TotalCost
	order.Notes = in.Notes
	order.BroughtBy = in.BroughtBy
	order.DeliveryDate = in.DeliveryDate
	order.PaymentDueDate = in.PaymentDueDate
	if in.Status != "" {
		order.Status = in.Status
	}
	if in.PaymentStatus != "" {
		order.PaymentStatus = in.PaymentStatus
	}
}

// checkTransitions rejects an edit that would move the order back along its lifecycle.
// Delivered never returns to Pending and Paid never returns to Unpaid.
func checkTransitions(existing *models.Order, in OrderInput) error {
	if existing.Status == string(models.OrderDelivered) && in.Status == string(models.OrderPending) {
		return invalid("status", "delivered orders cannot return to pending")
	}
	if !existing.IsUnpaid() && in.PaymentStatus == string(models.PaymentUnpaid) {
		return invalid("payment_status", "paid orders cannot return to unpaid")
	}
	return nil
}

func (s *orderService) requireCustomer(ctx context.Context, id uint) error {
	if _, err := s.balances.GetByID(ctx, id); err != nil {
		return storeError("load customer", "customer", id, err)
	}
	return nil
}

func (s *orderService) recomputeStep(customerID uint) SagaStep {
	return SagaStep{
		Name: "recompute_balance",
		Apply: func(ctx context.Context) error {
			if _, err := s.balances.RecomputeBalance(ctx, customerID); err != nil {
				return storeError("recompute balance", "customer", customerID, err)
			}
			return nil
		},
	}
}

// CreateOrder persists the order, takes its items out of stock and recomputes the customer's
// balance. Any failure after the order row is written rolls all of it back.
func (s *orderService) CreateOrder(ctx context.Context, in OrderInput) (order *models.Order, err error) {
	ctx, span := tracer.Start(ctx, "fulfillment.CreateOrder")
	defer func() { endSpan(span, err) }()

	if err := validateOrderInput(in); err != nil {
		return nil, err
	}
	if err := s.requireCustomer(ctx, in.CustomerID); err != nil {
		return nil, err
	}
	items, profit, err := s.buildItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	order = &models.Order{
		OrderNumber:   newReference("ORD"),
		Items:         items,
		Profit:        profit,
		Status:        string(models.OrderPending),
		PaymentStatus: string(models.PaymentUnpaid),
	}
	applyOrderInput(order, in)
	span.SetAttributes(
		attribute.Int64("customer.id", int64(in.CustomerID)),
		attribute.Int("order.items", len(items)),
	)

	saga := NewSaga("create_order", s.logger)
	saga.Add(SagaStep{
		Name: "persist_order",
		Apply: func(ctx context.Context) error {
			if err := s.orderRepo.Create(ctx, order); err != nil {
				return &PersistenceError{Op: "create order", Err: err}
			}
			span.SetAttributes(attribute.Int64("order.id", int64(order.ID)))
			return nil
		},
		Compensate: func(ctx context.Context) error {
			return s.orderRepo.Delete(ctx, order.ID)
		},
	})
	addStockSteps(saga, "decrement_stock", s.ledger, orderItemAdjustments(order.Items, -1))
	saga.Add(s.recomputeStep(order.CustomerID))

	if err := saga.Run(ctx); err != nil {
		settleBalances(ctx, s.balances, s.logger, order.CustomerID)
		return nil, err
	}

	s.sendConfirmation(ctx, order)
	return order, nil
}

// sendConfirmation runs after the order is committed; a failed send is logged, never returned.
func (s *orderService) sendConfirmation(ctx context.Context, order *models.Order) {
	msg := notify.OrderConfirmation{
		To:           order.Email,
		Phone:        order.ContactNumber,
		CustomerName: order.CustomerName,
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		Total:        order.TotalCost,
	}
	for _, item := range order.Items {
		msg.Items = append(msg.Items, notify.LineItem{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.Price,
			Subtotal: item.Subtotal(),
		})
	}
	if err := s.notifier.SendOrderConfirmation(ctx, msg); err != nil {
		s.logger.Warn("order confirmation not delivered", zap.Uint("order_id", order.ID), zap.Error(err))
	}
}

// UpdateOrder replaces the order's header and item set. An empty status or payment status
// keeps the stored one. Stock for the old items is put back, the new items are taken out, and
// every affected balance is recomputed. On failure the steps already applied are undone in
// reverse, so stock and items return to their prior state.
func (s *orderService) UpdateOrder(ctx context.Context, orderID uint, in OrderInput) (updated *models.Order, err error) {
	ctx, span := tracer.Start(ctx, "fulfillment.UpdateOrder")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)))

	if err := validateOrderInput(in); err != nil {
		return nil, err
	}
	existing, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeError("load order", "order", orderID, err)
	}
	if err := checkTransitions(existing, in); err != nil {
		return nil, err
	}
	if err := s.requireCustomer(ctx, in.CustomerID); err != nil {
		return nil, err
	}
	items, profit, err := s.buildItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	previous := *existing
	previous.Items = append([]models.OrderItem(nil), existing.Items...)

	updated = &models.Order{
		ID:            existing.ID,
		OrderNumber:   existing.OrderNumber,
		CreatedAt:     existing.CreatedAt,
		Items:         items,
		Profit:        profit,
		Status:        existing.Status,
		PaymentStatus: existing.PaymentStatus,
	}
	applyOrderInput(updated, in)

	saga := NewSaga("update_order", s.logger)
	addStockSteps(saga, "restore_stock", s.ledger, orderItemAdjustments(previous.Items, +1))
	saga.Add(SagaStep{
		Name: "replace_items",
		Apply: func(ctx context.Context) error {
			if err := s.orderRepo.ReplaceOrderItems(ctx, updated); err != nil {
				return storeError("replace order items", "order", orderID, err)
			}
			return nil
		},
		Compensate: func(ctx context.Context) error {
			restore := previous
			restore.Items = append([]models.OrderItem(nil), previous.Items...)
			return s.orderRepo.ReplaceOrderItems(ctx, &restore)
		},
	})
	addStockSteps(saga, "decrement_stock", s.ledger, orderItemAdjustments(items, -1))
	saga.Add(s.recomputeStep(updated.CustomerID))
	if previous.CustomerID != updated.CustomerID {
		saga.Add(s.recomputeStep(previous.CustomerID))
	}

	if err := saga.Run(ctx); err != nil {
		settleBalances(ctx, s.balances, s.logger, previous.CustomerID, updated.CustomerID)
		return nil, err
	}
	return updated, nil
}

// MarkDelivered moves the order to Delivered. It has no stock or balance effect and is
// idempotent.
func (s *orderService) MarkDelivered(ctx context.Context, orderID uint) (order *models.Order, err error) {
	ctx, span := tracer.Start(ctx, "fulfillment.MarkDelivered")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)))

	if err := s.orderRepo.SetStatus(ctx, orderID, string(models.OrderDelivered)); err != nil {
		return nil, storeError("set order status", "order", orderID, err)
	}
	order, err = s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeError("load order", "order", orderID, err)
	}
	return order, nil
}

// MarkPaid moves an Unpaid order to Paid. The customer's balance is then recomputed from
// their remaining unpaid orders rather than decremented in place. Calling it on an order that
// is already Paid changes nothing.
func (s *orderService) MarkPaid(ctx context.Context, orderID uint) (order *models.Order, err error) {
	ctx, span := tracer.Start(ctx, "fulfillment.MarkPaid")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)))

	order, err = s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeError("load order", "order", orderID, err)
	}

	changed := false
	saga := NewSaga("mark_paid", s.logger)
	saga.Add(SagaStep{
		Name: "set_payment_status",
		Apply: func(ctx context.Context) error {
			ok, err := s.orderRepo.SetPaymentStatus(ctx, orderID, string(models.PaymentUnpaid), string(models.PaymentPaid))
			if err != nil {
				return &PersistenceError{Op: "set payment status", Err: err}
			}
			changed = ok
			return nil
		},
		Compensate: func(ctx context.Context) error {
			if !changed {
				return nil
			}
			_, err := s.orderRepo.SetPaymentStatus(ctx, orderID, string(models.PaymentPaid), string(models.PaymentUnpaid))
			return err
		},
	})
	saga.Add(SagaStep{
		Name: "recompute_balance",
		Apply: func(ctx context.Context) error {
			if !changed {
				return nil
			}
			return s.recomputeStep(order.CustomerID).Apply(ctx)
		},
	})
	if err := saga.Run(ctx); err != nil {
		return nil, err
	}

	if !changed {
		s.logger.Debug("order already paid", zap.Uint("order_id", orderID))
	}
	order.PaymentStatus = string(models.PaymentPaid)
	return order, nil
}

// CancelOrder puts the order's items back in stock, removes the order and recomputes the
// customer's balance. Delivered orders cannot be cancelled.
func (s *orderService) CancelOrder(ctx context.Context, orderID uint) (err error) {
	ctx, span := tracer.Start(ctx, "fulfillment.CancelOrder")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)))

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return storeError("load order", "order", orderID, err)
	}
	if order.Status == string(models.OrderDelivered) {
		return invalid("status", "delivered orders cannot be cancelled")
	}

	saga := NewSaga("cancel_order", s.logger)
	addStockSteps(saga, "restore_stock", s.ledger, orderItemAdjustments(order.Items, +1))
	saga.Add(SagaStep{
		Name: "delete_order",
		Apply: func(ctx context.Context) error {
			if err := s.orderRepo.Delete(ctx, orderID); err != nil {
				return storeError("delete order", "order", orderID, err)
			}
			return nil
		},
		Compensate: func(ctx context.Context) error {
			restore := *order
			restore.Items = append([]models.OrderItem(nil), order.Items...)
			return s.orderRepo.Create(ctx, &restore)
		},
	})
	saga.Add(s.recomputeStep(order.CustomerID))

	if err := saga.Run(ctx); err != nil {
		settleBalances(ctx, s.balances, s.logger, order.CustomerID)
		return err
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeError("load order", "order", orderID, err)
	}
	return order, nil
}

// ListRecentOrders returns orders created in the last days days, newest first. days <= 0 means 30.
func (s *orderService) ListRecentOrders(ctx context.Context, days int) ([]models.Order, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	orders, err := s.orderRepo.GetRecent(ctx, since, 0)
	if err != nil {
		return nil, &PersistenceError{Op: "list recent orders", Err: err}
	}
	return orders, nil
}

func (s *orderService) ListOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	if to.Before(from) {
		return nil, invalid("to", "must not be before from")
	}
	orders, err := s.orderRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		return nil, &PersistenceError{Op: "list orders", Err: err}
	}
	return orders, nil
}
