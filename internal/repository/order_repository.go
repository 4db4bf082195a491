package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/models"

	"gorm.io/gorm"
)

// OrderRepository owns sales orders and their line items. Items are written and removed
// together with their order, never on their own.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	ReplaceOrderItems(ctx context.Context, order *models.Order) error
	SetStatus(ctx context.Context, id uint, status string) error
	SetPaymentStatus(ctx context.Context, id uint, from, to string) (bool, error)
	Delete(ctx context.Context, id uint) error
	GetRecent(ctx context.Context, since time.Time, limit int) ([]models.Order, error)
	GetByDateRange(ctx context.Context, startDate, endDate time.Time) ([]models.Order, error)
	GetUnpaid(ctx context.Context) ([]models.Order, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountByCustomer(ctx context.Context, customerID uint) (int64, error)
	CountItemsByProduct(ctx context.Context, productID uint) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its items in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if err != nil {
		return nil, wrapNotFound(err, "order", id)
	}
	return &order, nil
}

func (r *orderRepository) GetItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, err
}

// ReplaceOrderItems writes the order header and swaps its whole item set for order.Items
// in a single transaction, so readers never observe a partial item set.
func (r *orderRepository) ReplaceOrderItems(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Select("customer_id", "customer_name", "contact_number", "email", "total_cost", "profit",
				"status", "payment_status", "notes", "brought_by", "delivery_date", "payment_due_date", "updated_at").
			Updates(&models.Order{
				CustomerID:     order.CustomerID,
				CustomerName:   order.CustomerName,
				ContactNumber:  order.ContactNumber,
				Email:          order.Email,
				TotalCost:      order.TotalCost,
				Profit:         order.Profit,
				Status:         order.Status,
				PaymentStatus:  order.PaymentStatus,
				Notes:          order.Notes,
				BroughtBy:      order.BroughtBy,
				DeliveryDate:   order.DeliveryDate,
				PaymentDueDate: order.PaymentDueDate,
				UpdatedAt:      time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %d: %w", order.ID, ErrNotFound)
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].ID = 0
			order.Items[i].OrderID = order.ID
		}
		return tx.Create(&order.Items).Error
	})
}

func (r *orderRepository) SetStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetPaymentStatus moves the order from one payment status to another. It reports false
// when no row was in the expected status, which includes an unknown id.
func (r *orderRepository) SetPaymentStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, from).
		Update("payment_status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the order and its items.
func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *orderRepository) GetRecent(ctx context.Context, since time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.WithContext(ctx).Preload("Items").Where("created_at >= ?", since).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByDateRange(ctx context.Context, startDate, endDate time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Order("created_at").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetUnpaid(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("payment_status = ?", string(models.PaymentUnpaid)).
		Order("payment_due_date").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *orderRepository) CountByCustomer(ctx context.Context, customerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

func (r *orderRepository) CountItemsByProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}
