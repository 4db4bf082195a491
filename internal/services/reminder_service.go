package services

import (
	"context"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/notify"
	"github.com/Siddharth20050904/inventory-management/internal/repository"

	"go.uber.org/zap"
)

// ReminderRun summarises one reminder batch.
type ReminderRun struct {
	Overdue int `json:"overdue"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

type ReminderService interface {
	SendOverdueReminders(ctx context.Context, now time.Time) (ReminderRun, error)
}

type reminderService struct {
	orderRepo repository.OrderRepository
	notifier  notify.Notifier
	grace     time.Duration
	logger    *zap.Logger
}

func NewReminderService(orderRepo repository.OrderRepository, notifier notify.Notifier, graceDays int, logger *zap.Logger) ReminderService {
	if notifier == nil {
		notifier = notify.Noop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if graceDays < 0 {
		graceDays = 0
	}
	return &reminderService{
		orderRepo: orderRepo,
		notifier:  notifier,
		grace:     time.Duration(graceDays) * 24 * time.Hour,
		logger:    logger.Named("reminders"),
	}
}

// SendOverdueReminders notifies every unpaid order whose due date plus the grace period has
// passed. A failed send is counted and logged; the rest of the batch still goes out.
func (s *reminderService) SendOverdueReminders(ctx context.Context, now time.Time) (run ReminderRun, err error) {
	ctx, span := tracer.Start(ctx, "reminders.SendOverdueReminders")
	defer func() { endSpan(span, err) }()

	orders, err := s.orderRepo.GetUnpaid(ctx)
	if err != nil {
		return run, &PersistenceError{Op: "load unpaid orders", Err: err}
	}

	for _, order := range orders {
		if order.PaymentDueDate == nil || !order.PaymentDueDate.Add(s.grace).Before(now) {
			continue
		}
		run.Overdue++

		msg := notify.PaymentReminder{
			To:           order.Email,
			Phone:        order.ContactNumber,
			CustomerName: order.CustomerName,
			OrderID:      order.ID,
			OrderNumber:  order.OrderNumber,
			Amount:       order.TotalCost,
			DueDate:      *order.PaymentDueDate,
		}
		if err := s.notifier.SendPaymentReminder(ctx, msg); err != nil {
			run.Failed++
			s.logger.Warn("payment reminder not delivered",
				zap.Uint("order_id", order.ID),
				zap.Uint("customer_id", order.CustomerID),
				zap.Error(err),
			)
			continue
		}
		run.Sent++
	}

	s.logger.Info("payment reminders processed",
		zap.Int("overdue", run.Overdue),
		zap.Int("sent", run.Sent),
		zap.Int("failed", run.Failed),
	)
	return run, nil
}
