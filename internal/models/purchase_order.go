package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder is a restock order placed with a supplier. Its items add to stock.
type PurchaseOrder struct {
	ID             uint                `json:"id" gorm:"primaryKey"`
	PONumber       string              `json:"po_number" gorm:"column:po_number;unique;not null"`
	SupplierName   string              `json:"supplier_name" gorm:"not null;index"`
	Items          []PurchaseOrderItem `json:"items" gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	TotalCost      decimal.Decimal     `json:"total_cost" gorm:"type:decimal(12,2);not null"`
	Status         string              `json:"status" gorm:"default:'Pending'"`        // Pending, Delivered
	PaymentStatus  string              `json:"payment_status" gorm:"default:'Unpaid'"` // Unpaid, Paid
	Notes          string              `json:"notes" gorm:"type:text"`
	DeliveryDate   *time.Time          `json:"delivery_date"`
	PaymentDueDate *time.Time          `json:"payment_due_date"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type PurchaseOrderItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	PurchaseOrderID uint            `json:"purchase_order_id" gorm:"index;not null"`
	ProductID       uint            `json:"product_id" gorm:"index;not null"`
	ProductName     string          `json:"product_name" gorm:"not null"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	CreatedAt       time.Time       `json:"created_at"`
}
