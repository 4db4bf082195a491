package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	OrderNumber    string          `json:"order_number" gorm:"unique;not null"`
	CustomerID     uint            `json:"customer_id" gorm:"index;not null"`
	CustomerName   string          `json:"customer_name" gorm:"not null"`
	ContactNumber  string          `json:"contact_number"`
	Email          string          `json:"email"`
	Items          []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalCost      decimal.Decimal `json:"total_cost" gorm:"type:decimal(12,2);not null"`
	Profit         decimal.Decimal `json:"profit" gorm:"type:decimal(12,2);not null;default:0"`
	Status         string          `json:"status" gorm:"default:'Pending'"`        // Pending, Delivered
	PaymentStatus  string          `json:"payment_status" gorm:"default:'Unpaid'"` // Unpaid, Paid
	Notes          string          `json:"notes" gorm:"type:text"`
	BroughtBy      string          `json:"brought_by"`
	DeliveryDate   *time.Time      `json:"delivery_date"`
	PaymentDueDate *time.Time      `json:"payment_due_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderDelivered OrderStatus = "Delivered"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

// IsUnpaid reports whether the order counts towards the customer's pending balance.
func (o *Order) IsUnpaid() bool {
	return o.PaymentStatus == string(PaymentUnpaid)
}
