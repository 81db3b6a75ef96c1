package services

import (
	"context"
	"strconv"
	"time"

	"order-desk/internal/domain"
	"order-desk/internal/infra"
	rabbit "order-desk/internal/infra/rabbitmq"
	"order-desk/internal/metrics"
	"order-desk/internal/repository"

	"go.uber.org/zap"
)

type ConfirmationResult struct {
	Order *domain.Order
	// Confirmed is false when the order had no payment date to confirm.
	Confirmed bool
	Notified  bool
}

type ConfirmationService struct {
	orders    repository.OrderRepository
	notifier  infra.OrderNotifier
	publisher rabbit.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewConfirmationService(o repository.OrderRepository, n infra.OrderNotifier, pub rabbit.EventPublisher, logger *zap.Logger) *ConfirmationService {
	return &ConfirmationService{
		orders:    o,
		notifier:  n,
		publisher: pub,
		logger:    logger,
		now:       time.Now,
	}
}

// Confirm moves a paid order to confirmed and notifies the external system.
// A failed notification is reported in the result; the confirmation stays.
func (s *ConfirmationService) Confirm(ctx context.Context, orderID uint64) (*ConfirmationResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != domain.StatusPaid {
		return nil, ErrOrderNotPaid
	}

	if !order.Confirm(s.now()) {
		s.logger.Warn("order has no payment date, confirmation skipped", zap.Uint64("order_id", orderID))
		return &ConfirmationResult{Order: order}, nil
	}
	changed, err := s.orders.UpdateStatus(ctx, order, domain.StatusPaid)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrOrderNotPaid
	}

	notified := s.notifier.NotifyConfirmed(ctx, order)
	metrics.OrderConfirmations.WithLabelValues(strconv.FormatBool(notified)).Inc()
	if notified {
		s.logger.Info("order confirmed", zap.Uint64("order_id", orderID))
	} else {
		s.logger.Warn("order confirmed but external notification failed", zap.Uint64("order_id", orderID))
	}

	evt := domain.OrderConfirmedEvent{
		OrderID:     order.ID,
		TotalCost:   order.TotalCost,
		ConfirmedAt: *order.ConfirmedDate,
		Notified:    notified,
	}
	go func() {
		if err := s.publisher.Publish(context.Background(), domain.EventOrderConfirmed, evt); err != nil {
			s.logger.Error("failed to publish event", zap.String("pattern", domain.EventOrderConfirmed), zap.Error(err))
		}
	}()

	return &ConfirmationResult{Order: order, Confirmed: true, Notified: notified}, nil
}
