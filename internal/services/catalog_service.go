package services

import (
	"context"
	"strings"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/models"
	"github.com/Siddharth20050904/inventory-management/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService manages products and customers directly, outside any order flow.
type CatalogService interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error

	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id uint) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	purchaseRepo repository.PurchaseOrderRepository
	logger       *zap.Logger
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	purchaseRepo repository.PurchaseOrderRepository,
	logger *zap.Logger,
) CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &catalogService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		purchaseRepo: purchaseRepo,
		logger:       logger.Named("catalog"),
	}
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "required")
	}
	if p.Price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	if p.CostPrice.IsNegative() {
		return invalid("cost_price", "must not be negative")
	}
	if p.Quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	return nil
}

func validateCustomer(c *models.Customer) error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return invalid("name", "required")
	case strings.TrimSpace(c.Email) == "":
		return invalid("email", "required")
	case strings.TrimSpace(c.Phone) == "":
		return invalid("phone", "required")
	case strings.TrimSpace(c.Address) == "":
		return invalid("address", "required")
	}
	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	product.ID = 0
	product.LastUpdated = time.Now()
	if err := s.productRepo.Create(ctx, product); err != nil {
		return &PersistenceError{Op: "create product", Err: err}
	}
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("load product", "product", id, err)
	}
	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list products", Err: err}
	}
	return products, nil
}

func (s *catalogService) CountProducts(ctx context.Context) (int64, error) {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return 0, &PersistenceError{Op: "count products", Err: err}
	}
	return count, nil
}

// UpdateProduct is a direct edit. It overwrites the stored quantity, so it bypasses the
// ledger's delta arithmetic; order flows never use it.
func (s *catalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	product.LastUpdated = time.Now()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return storeError("update product", "product", product.ID, err)
	}
	return nil
}

// DeleteProduct refuses while any order or purchase order line still references the product.
func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	sold, err := s.orderRepo.CountItemsByProduct(ctx, id)
	if err != nil {
		return &PersistenceError{Op: "count order items", Err: err}
	}
	bought, err := s.purchaseRepo.CountItemsByProduct(ctx, id)
	if err != nil {
		return &PersistenceError{Op: "count purchase items", Err: err}
	}
	if sold+bought > 0 {
		return invalid("product", "still referenced by order items")
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return storeError("delete product", "product", id, err)
	}
	s.logger.Info("product deleted", zap.Uint("product_id", id))
	return nil
}

func (s *catalogService) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if err := validateCustomer(customer); err != nil {
		return err
	}
	customer.ID = 0
	customer.PaymentPending = decimal.Zero
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return &PersistenceError{Op: "create customer", Err: err}
	}
	return nil
}

func (s *catalogService) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("load customer", "customer", id, err)
	}
	return customer, nil
}

func (s *catalogService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list customers", Err: err}
	}
	return customers, nil
}

// UpdateCustomer changes contact details. The balance is never taken from the caller.
func (s *catalogService) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	if err := validateCustomer(customer); err != nil {
		return err
	}
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return storeError("update customer", "customer", customer.ID, err)
	}
	return nil
}

func (s *catalogService) DeleteCustomer(ctx context.Context, id uint) error {
	orders, err := s.orderRepo.CountByCustomer(ctx, id)
	if err != nil {
		return &PersistenceError{Op: "count customer orders", Err: err}
	}
	if orders > 0 {
		return invalid("customer", "has orders")
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return storeError("delete customer", "customer", id, err)
	}
	s.logger.Info("customer deleted", zap.Uint("customer_id", id))
	return nil
}
