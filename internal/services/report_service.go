package services

import (
	"context"
	"errors"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/cache"
	"github.com/Siddharth20050904/inventory-management/internal/models"
	"github.com/Siddharth20050904/inventory-management/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dashboardCacheKey = "report:dashboard"

type SalesRange string

const (
	RangeMonthly SalesRange = "monthly"
	RangeDaily   SalesRange = "daily"
)

type Dashboard struct {
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	PendingOrders    int64           `json:"pending_orders"`
	ProductCount     int64           `json:"product_count"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	RecentOrders     []models.Order  `json:"recent_orders"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// SalesPoint is one bucket of a sales chart.
type SalesPoint struct {
	Name   string          `json:"name"`
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
}

type ReportService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	SalesAndProfit(ctx context.Context, r SalesRange) ([]SalesPoint, error)
	PendingPayments(ctx context.Context) ([]models.Order, error)
	InvalidateDashboard(ctx context.Context)
}

type reportService struct {
	reportRepo   repository.ReportRepository
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	cache        cache.Cache
	ttl          time.Duration
	now          func() time.Time
	logger       *zap.Logger
}

func NewReportService(
	reportRepo repository.ReportRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	c cache.Cache,
	ttl time.Duration,
	logger *zap.Logger,
) ReportService {
	if c == nil {
		c = cache.Noop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &reportService{
		reportRepo:   reportRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		cache:        c,
		ttl:          ttl,
		now:          time.Now,
		logger:       logger.Named("reports"),
	}
}

// Dashboard serves the cached snapshot when there is one. Cache errors only cost a rebuild.
func (s *reportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var cached Dashboard
	err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
	}

	d, err := s.buildDashboard(ctx)
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, d, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return d, nil
}

func (s *reportService) buildDashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	revenue, err := s.reportRepo.RevenueBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, &PersistenceError{Op: "monthly revenue", Err: err}
	}
	pending, err := s.orderRepo.CountByStatus(ctx, string(models.OrderPending))
	if err != nil {
		return nil, &PersistenceError{Op: "count pending orders", Err: err}
	}
	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "count products", Err: err}
	}
	outstanding, err := s.customerRepo.TotalOutstanding(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "total outstanding", Err: err}
	}
	recent, err := s.orderRepo.GetRecent(ctx, time.Time{}, 5)
	if err != nil {
		return nil, &PersistenceError{Op: "recent orders", Err: err}
	}

	return &Dashboard{
		RevenueThisMonth: revenue,
		PendingOrders:    pending,
		ProductCount:     products,
		TotalOutstanding: outstanding,
		RecentOrders:     recent,
		GeneratedAt:      now,
	}, nil
}

func (s *reportService) InvalidateDashboard(ctx context.Context) {
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

// SalesAndProfit buckets order totals and profit by calendar month over the last 12 months,
// or by day over the last 7 days. Empty buckets are included with zero values.
func (s *reportService) SalesAndProfit(ctx context.Context, r SalesRange) ([]SalesPoint, error) {
	now := s.now()
	var (
		starts []time.Time
		layout string
		next   func(time.Time) time.Time
	)
	switch r {
	case RangeMonthly, "":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)
		for i := 0; i < 12; i++ {
			starts = append(starts, first.AddDate(0, i, 0))
		}
		layout = "Jan 2006"
		next = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	case RangeDaily:
		first := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)
		for i := 0; i < 7; i++ {
			starts = append(starts, first.AddDate(0, 0, i))
		}
		layout = "Mon 02 Jan"
		next = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	default:
		return nil, invalid("range", "must be monthly or daily")
	}

	end := next(starts[len(starts)-1])
	rows, err := s.reportRepo.SalesBetween(ctx, starts[0], end)
	if err != nil {
		return nil, &PersistenceError{Op: "sales report", Err: err}
	}

	points := make([]SalesPoint, len(starts))
	for i, start := range starts {
		points[i] = SalesPoint{Name: start.Format(layout), Sales: decimal.Zero, Profit: decimal.Zero}
	}
	for _, row := range rows {
		created := row.CreatedAt.In(now.Location())
		for i := len(starts) - 1; i >= 0; i-- {
			if !created.Before(starts[i]) {
				points[i].Sales = points[i].Sales.Add(row.TotalCost)
				points[i].Profit = points[i].Profit.Add(row.Profit)
				break
			}
		}
	}
	return points, nil
}

// PendingPayments lists unpaid orders, earliest due date first.
func (s *reportService) PendingPayments(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orderRepo.GetUnpaid(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "pending payments", Err: err}
	}
	return orders, nil
}
