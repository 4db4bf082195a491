package services

import (
	"github.com/Siddharth20050904/inventory-management/internal/models"

	"github.com/shopspring/decimal"
)

// ComputeOrderProfit returns Σ (price − costBasis[productID]) × quantity over items.
// A product missing from costBasis counts with a cost of zero.
func ComputeOrderProfit(items []models.OrderItem, costBasis map[uint]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		cost := costBasis[item.ProductID]
		margin := item.Price.Sub(cost)
		total = total.Add(margin.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// SnapshotCosts stamps each item's Cost with the cost basis of its product and returns the
// resulting profit. Items keep this snapshot, so later price edits leave history untouched.
func SnapshotCosts(items []models.OrderItem, costBasis map[uint]decimal.Decimal) decimal.Decimal {
	for i := range items {
		items[i].Cost = costBasis[items[i].ProductID]
	}
	return ComputeOrderProfit(items, costBasis)
}

// costBasisOf extracts the cost basis of every product in the map.
func costBasisOf(products map[uint]models.Product) map[uint]decimal.Decimal {
	basis := make(map[uint]decimal.Decimal, len(products))
	for id, p := range products {
		basis[id] = p.CostPrice
	}
	return basis
}
