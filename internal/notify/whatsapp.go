package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/Siddharth20050904/inventory-management/pkg/whatsapp"
)

// TextSender is the part of the WhatsApp gateway client the notifier uses.
type TextSender interface {
	SendTextMessage(ctx context.Context, phone, message string) error
}

type WhatsAppNotifier struct {
	sender      TextSender
	countryCode string
}

func NewWhatsAppNotifier(sender TextSender, countryCode string) *WhatsAppNotifier {
	return &WhatsAppNotifier{sender: sender, countryCode: countryCode}
}

func (n *WhatsAppNotifier) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	if strings.TrimSpace(msg.Phone) == "" {
		return ErrNoRecipient
	}
	return n.sender.SendTextMessage(ctx, whatsapp.NormalizePhone(msg.Phone, n.countryCode), FormatOrderConfirmation(msg))
}

func (n *WhatsAppNotifier) SendPaymentReminder(ctx context.Context, msg PaymentReminder) error {
	if strings.TrimSpace(msg.Phone) == "" {
		return ErrNoRecipient
	}
	return n.sender.SendTextMessage(ctx, whatsapp.NormalizePhone(msg.Phone, n.countryCode), FormatPaymentReminder(msg))
}

func FormatOrderConfirmation(msg OrderConfirmation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n", msg.CustomerName)
	fmt.Fprintf(&b, "Thank you for your order %s.\n\n", msg.OrderNumber)
	for _, item := range msg.Items {
		fmt.Fprintf(&b, "- %s (x%d @ ₹%s) - ₹%s\n", item.Name, item.Quantity, item.Price.StringFixed(2), item.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: ₹%s", msg.Total.StringFixed(2))
	return b.String()
}

func FormatPaymentReminder(msg PaymentReminder) string {
	return fmt.Sprintf("Hello %s,\nPayment of ₹%s for order %s was due on %s. Please settle it at your earliest convenience.",
		msg.CustomerName, msg.Amount.StringFixed(2), msg.OrderNumber, msg.DueDate.Format("02 Jan 2006"))
}
