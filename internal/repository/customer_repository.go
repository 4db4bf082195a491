package repository

import (
	"context"
	"fmt"

	"github.com/Siddharth20050904/inventory-management/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerRepository owns customer records and the denormalized paymentPending balance.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uint) error
	GetAll(ctx context.Context) ([]models.Customer, error)
	RecomputeBalance(ctx context.Context, customerID uint) (decimal.Decimal, error)
	TotalOutstanding(ctx context.Context) (decimal.Decimal, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, wrapNotFound(err, "customer", id)
	}
	return &customer, nil
}

// Update writes the contact fields only. PaymentPending is owned by RecomputeBalance.
func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", customer.ID).
		Select("name", "email", "phone", "address").
		Updates(customer)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer %d: %w", customer.ID, ErrNotFound)
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *customerRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Order("name").Find(&customers).Error
	return customers, err
}

// RecomputeBalance sums totalCost over the customer's unpaid orders and stores the result as
// paymentPending. It never increments, so a lost or repeated call cannot compound drift.
func (r *customerRepository) RecomputeBalance(ctx context.Context, customerID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var unpaid []models.Order
		err := tx.Select("id", "total_cost").
			Where("customer_id = ? AND payment_status = ?", customerID, string(models.PaymentUnpaid)).
			Find(&unpaid).Error
		if err != nil {
			return err
		}
		for _, o := range unpaid {
			total = total.Add(o.TotalCost)
		}

		res := tx.Model(&models.Customer{}).Where("id = ?", customerID).Update("payment_pending", total)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *customerRepository) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var customers []models.Customer
	if err := r.db.WithContext(ctx).Select("id", "payment_pending").Find(&customers).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range customers {
		total = total.Add(c.PaymentPending)
	}
	return total, nil
}
