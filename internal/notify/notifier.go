// Package notify delivers customer-facing messages about orders. Delivery is best effort:
// callers log a failed send and carry on.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// OrderConfirmation is sent once a sales order has been committed.
type OrderConfirmation struct {
	To           string          `json:"to"`
	Phone        string          `json:"phone,omitempty"`
	CustomerName string          `json:"customer_name"`
	OrderID      uint            `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	Items        []LineItem      `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

// PaymentReminder is sent for an unpaid order past its due date.
type PaymentReminder struct {
	To           string          `json:"to"`
	Phone        string          `json:"phone,omitempty"`
	CustomerName string          `json:"customer_name"`
	OrderID      uint            `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date"`
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error
	SendPaymentReminder(ctx context.Context, msg PaymentReminder) error
}

// ErrNoRecipient is returned when a message has no address the notifier can deliver to.
var ErrNoRecipient = errors.New("notify: no recipient")

type noop struct{}

// Noop discards every message.
func Noop() Notifier { return noop{} }

func (noop) SendOrderConfirmation(context.Context, OrderConfirmation) error { return nil }
func (noop) SendPaymentReminder(context.Context, PaymentReminder) error     { return nil }

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	var errs []error
	for _, n := range m {
		if err := n.SendOrderConfirmation(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) SendPaymentReminder(ctx context.Context, msg PaymentReminder) error {
	var errs []error
	for _, n := range m {
		if err := n.SendPaymentReminder(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
