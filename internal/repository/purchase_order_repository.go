package repository

import (
	"context"
	"fmt"

	"github.com/Siddharth20050904/inventory-management/internal/models"

	"gorm.io/gorm"
)

// PurchaseOrderRepository owns supplier purchase orders and their items.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *models.PurchaseOrder) error
	GetByID(ctx context.Context, id uint) (*models.PurchaseOrder, error)
	Search(ctx context.Context, supplier string, limit, offset int) ([]models.PurchaseOrder, error)
	Recreate(ctx context.Context, po *models.PurchaseOrder) error
	SetStatus(ctx context.Context, id uint, status string) error
	SetPaymentStatus(ctx context.Context, id uint, from, to string) (bool, error)
	Delete(ctx context.Context, id uint) error
	CountItemsByProduct(ctx context.Context, productID uint) (int64, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Items").First(&po, id).Error
	if err != nil {
		return nil, wrapNotFound(err, "purchase order", id)
	}
	return &po, nil
}

// Search lists purchase orders newest first, filtered by a case-insensitive supplier substring.
func (r *purchaseOrderRepository) Search(ctx context.Context, supplier string, limit, offset int) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	q := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if supplier != "" {
		q = q.Where("LOWER(supplier_name) LIKE LOWER(?)", "%"+supplier+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	err := q.Find(&orders).Error
	return orders, err
}

// Recreate deletes the purchase order row with its items and inserts po in its place.
// po.ID, po.PONumber and po.CreatedAt must carry the original values; they are written as given.
func (r *purchaseOrderRepository) Recreate(ctx context.Context, po *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", po.ID).Delete(&models.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.PurchaseOrder{}, po.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("purchase order %d: %w", po.ID, ErrNotFound)
		}
		for i := range po.Items {
			po.Items[i].ID = 0
			po.Items[i].PurchaseOrderID = po.ID
		}
		return tx.Create(po).Error
	})
}

func (r *purchaseOrderRepository) SetStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("purchase order %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *purchaseOrderRepository) SetPaymentStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Where("id = ? AND payment_status = ?", id, from).
		Update("payment_status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *purchaseOrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).Delete(&models.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.PurchaseOrder{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("purchase order %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *purchaseOrderRepository) CountItemsByProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PurchaseOrderItem{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}
