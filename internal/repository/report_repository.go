package repository

import (
	"context"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesRow is the slice of an order the sales reports aggregate over.
type SalesRow struct {
	CreatedAt time.Time
	TotalCost decimal.Decimal
	Profit    decimal.Decimal
}

// ReportRepository serves read-only aggregates for dashboards.
type ReportRepository interface {
	SalesBetween(ctx context.Context, startDate, endDate time.Time) ([]SalesRow, error)
	RevenueBetween(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SalesBetween(ctx context.Context, startDate, endDate time.Time) ([]SalesRow, error) {
	var rows []SalesRow
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("created_at", "total_cost", "profit").
		Where("created_at >= ? AND created_at < ?", startDate, endDate).
		Order("created_at").
		Scan(&rows).Error
	return rows, err
}

// RevenueBetween sums order totals in Go rather than SQL so decimal precision is kept on every driver.
func (r *reportRepository) RevenueBetween(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error) {
	rows, err := r.SalesBetween(ctx, startDate, endDate)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.TotalCost)
	}
	return total, nil
}
