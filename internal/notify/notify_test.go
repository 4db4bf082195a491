package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentText struct {
	phone, message string
}

type fakeSender struct {
	sent []sentText
	err  error
}

func (s *fakeSender) SendTextMessage(_ context.Context, phone, message string) error {
	s.sent = append(s.sent, sentText{phone: phone, message: message})
	return s.err
}

func confirmation() OrderConfirmation {
	return OrderConfirmation{
		To:           "asha@example.com",
		Phone:        "09876543210",
		CustomerName: "Asha",
		OrderID:      7,
		OrderNumber:  "ORD-1",
		Items: []LineItem{
			{Name: "Saree", Quantity: 2, Price: decimal.RequireFromString("50"), Subtotal: decimal.RequireFromString("100")},
		},
		Total: decimal.RequireFromString("100"),
	}
}

func TestWhatsAppNotifierSendsConfirmation(t *testing.T) {
	sender := &fakeSender{}
	n := NewWhatsAppNotifier(sender, "91")

	require.NoError(t, n.SendOrderConfirmation(context.Background(), confirmation()))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "919876543210", sender.sent[0].phone)
	assert.Contains(t, sender.sent[0].message, "Hello Asha")
	assert.Contains(t, sender.sent[0].message, "- Saree (x2 @ ₹50.00) - ₹100.00")
	assert.Contains(t, sender.sent[0].message, "Total: ₹100.00")
}

func TestWhatsAppNotifierNeedsPhone(t *testing.T) {
	sender := &fakeSender{}
	n := NewWhatsAppNotifier(sender, "91")

	msg := confirmation()
	msg.Phone = " "
	assert.ErrorIs(t, n.SendOrderConfirmation(context.Background(), msg), ErrNoRecipient)
	assert.ErrorIs(t, n.SendPaymentReminder(context.Background(), PaymentReminder{}), ErrNoRecipient)
	assert.Empty(t, sender.sent)
}

func TestFormatPaymentReminder(t *testing.T) {
	text := FormatPaymentReminder(PaymentReminder{
		CustomerName: "Asha",
		OrderNumber:  "ORD-1",
		Amount:       decimal.RequireFromString("99.5"),
		DueDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, text, "₹99.50")
	assert.Contains(t, text, "ORD-1")
	assert.Contains(t, text, "01 Mar 2026")
}

type fakeProducer struct {
	msgs []kafka.Message
	err  error
}

func (p *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	p.msgs = append(p.msgs, msgs...)
	return p.err
}

func TestKafkaNotifierPublishesEnvelope(t *testing.T) {
	producer := &fakeProducer{}
	n := NewKafkaNotifier(producer)
	n.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, n.SendOrderConfirmation(context.Background(), confirmation()))
	require.Len(t, producer.msgs, 1)
	msg := producer.msgs[0]
	assert.Equal(t, "ORD-1", string(msg.Key))
	require.NotEmpty(t, msg.Headers)
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, EventOrderConfirmed, string(msg.Headers[0].Value))

	var event Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventOrderConfirmed, event.Type)
	assert.True(t, event.OccurredAt.Equal(n.now()))

	var payload OrderConfirmation
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, uint(7), payload.OrderID)
	assert.True(t, payload.Total.Equal(decimal.RequireFromString("100")))
}

func TestKafkaNotifierWrapsWriteErrors(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker unreachable")}
	err := NewKafkaNotifier(producer).SendPaymentReminder(context.Background(), PaymentReminder{OrderNumber: "ORD-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), EventPaymentReminder)
}

func TestMultiJoinsErrors(t *testing.T) {
	ok := &fakeSender{}
	failing := &fakeSender{err: errors.New("gateway down")}
	m := Multi{NewWhatsAppNotifier(failing, "91"), NewWhatsAppNotifier(ok, "91"), Noop()}

	err := m.SendOrderConfirmation(context.Background(), confirmation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway down")
	assert.Len(t, ok.sent, 1)

	failing.err = nil
	assert.NoError(t, m.SendOrderConfirmation(context.Background(), confirmation()))
}
