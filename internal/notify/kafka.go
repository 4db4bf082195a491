package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	EventOrderConfirmed  = "OrderConfirmed"
	EventPaymentReminder = "PaymentReminder"
)

// Producer is satisfied by *kafka.Writer.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Event is the envelope published for downstream consumers such as the mailer.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type KafkaNotifier struct {
	producer Producer
	now      func() time.Time
}

func NewKafkaNotifier(producer Producer) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, now: time.Now}
}

// NewKafkaWriter builds the writer used in production. Messages for one order share a key and
// so land on one partition in order.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func (n *KafkaNotifier) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	return n.publish(ctx, EventOrderConfirmed, msg.OrderNumber, msg)
}

func (n *KafkaNotifier) SendPaymentReminder(ctx context.Context, msg PaymentReminder) error {
	return n.publish(ctx, EventPaymentReminder, msg.OrderNumber, msg)
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType, key string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: n.now().UTC(),
		Payload:    body,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := []kafka.Header{{Key: "event-type", Value: []byte(eventType)}}
	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	err = n.producer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}
