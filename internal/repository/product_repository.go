package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/models"

	"gorm.io/gorm"
)

// ProductRepository owns product records and their stock levels.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	GetAll(ctx context.Context) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	AdjustStock(ctx context.Context, productID uint, delta int) (int, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if product.LastUpdated.IsZero() {
		product.LastUpdated = time.Now()
	}
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		return nil, wrapNotFound(err, "product", id)
	}
	return &product, nil
}

// GetByIDs loads the given products in one query. Unknown ids are simply absent from the result.
func (r *productRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	result := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).
		Select("name", "price", "cost_price", "quantity", "description", "last_updated").
		Updates(product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", product.ID, ErrNotFound)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("name").Find(&products).Error
	return products, err
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// AdjustStock adds delta to the stored quantity in a single UPDATE and returns the new quantity.
// The arithmetic happens in the database so concurrent adjustments never lose an update.
// No floor is applied: a sale larger than the stock on hand leaves a negative quantity.
func (r *productRepository) AdjustStock(ctx context.Context, productID uint, delta int) (int, error) {
	var quantity int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := stockUpdate(tx, productID, delta)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return tx.Model(&models.Product{}).Select("quantity").Where("id = ?", productID).Row().Scan(&quantity)
	})
	if err != nil {
		return 0, err
	}
	return quantity, nil
}

func stockUpdate(tx *gorm.DB, productID uint, delta int) *gorm.DB {
	return tx.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"quantity":     gorm.Expr("quantity + ?", delta),
		"last_updated": time.Now(),
	})
}
