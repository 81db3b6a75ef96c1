package services

import (
	"context"
	"fmt"
	"time"

	"order-desk/internal/domain"
	"order-desk/internal/infra/gateway"
	rabbit "order-desk/internal/infra/rabbitmq"
	"order-desk/internal/metrics"
	"order-desk/internal/repository"

	"go.uber.org/zap"
)

type PaymentService struct {
	payments  repository.PaymentRepository
	orders    repository.OrderRepository
	processor gateway.PaymentProcessor
	publisher rabbit.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewPaymentService(pay repository.PaymentRepository, o repository.OrderRepository, proc gateway.PaymentProcessor, pub rabbit.EventPublisher, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		payments:  pay,
		orders:    o,
		processor: proc,
		publisher: pub,
		logger:    logger,
		now:       time.Now,
	}
}

// CreatePayment opens a payment against an order that is not paid yet, takes
// a snapshot of the order total as its cost and runs it through the
// processor. The call blocks for as long as processing takes.
func (s *PaymentService) CreatePayment(ctx context.Context, orderID uint64, method string) (*domain.Payment, error) {
	m, err := domain.ParsePaymentMethod(method)
	if err != nil {
		return nil, err
	}

	order, err := s.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.AtLeast(domain.StatusPaid) {
		return nil, ErrOrderAlreadyPaid
	}

	p := &domain.Payment{
		OrderID:       orderID,
		Status:        domain.PaymentPending,
		PaymentMethod: m,
	}
	p.AssignCost(order.TotalCost)

	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("payment created",
		zap.Uint64("payment_id", p.ID),
		zap.Uint64("order_id", orderID),
		zap.String("cost", p.Cost.StringFixed(2)),
	)

	return s.process(ctx, p)
}

// UpdatePaymentMethod persists a new method. Saving a payment that is still
// pending runs it through the processor again; a voided payment is only saved.
func (s *PaymentService) UpdatePaymentMethod(ctx context.Context, id uint64, method string) (*domain.Payment, error) {
	m, err := domain.ParsePaymentMethod(method)
	if err != nil {
		return nil, err
	}

	p, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	p.PaymentMethod = m
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.process(ctx, p)
}

func (s *PaymentService) GetPayment(ctx context.Context, id uint64) (*domain.Payment, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

func (s *PaymentService) ListOrderPayments(ctx context.Context, orderID uint64) ([]domain.Payment, error) {
	if _, err := s.order(ctx, orderID); err != nil {
		return nil, err
	}
	return s.payments.FindByOrderID(ctx, orderID)
}

// Void marks the payment voided whatever its current status.
func (s *PaymentService) Void(ctx context.Context, id uint64) (*domain.Payment, error) {
	p, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Void()
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("payment voided", zap.Uint64("payment_id", id), zap.Uint64("order_id", p.OrderID))
	return p, nil
}

// Delete never removes a payment: it voids it, persists the void and then
// reports ErrPaymentDeleteForbidden.
func (s *PaymentService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.Void(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: payment %d was voided", ErrPaymentDeleteForbidden, id)
}

// process runs a pending payment through the processor. A processor error
// voids the payment so a retried request does not leave a second live one.
func (s *PaymentService) process(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	if p.Status != domain.PaymentPending {
		return p, nil
	}

	status, err := s.processor.Process(ctx, p)
	if err != nil {
		p.Void()
		if uerr := s.payments.Update(ctx, p); uerr != nil {
			s.logger.Error("failed to void unprocessed payment", zap.Uint64("payment_id", p.ID), zap.Error(uerr))
		}
		return nil, fmt.Errorf("process payment %d: %w", p.ID, err)
	}
	metrics.PaymentsProcessed.WithLabelValues(string(status)).Inc()

	p.Status = status
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}

	if p.Status == domain.PaymentCompleted {
		if err := s.markOrderPaid(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// markOrderPaid reloads the order after processing, which may have taken a
// while, and writes only its status columns.
func (s *PaymentService) markOrderPaid(ctx context.Context, p *domain.Payment) error {
	order, err := s.order(ctx, p.OrderID)
	if err != nil {
		return err
	}

	from := order.Status
	now := s.now()
	if !order.MarkPaid(now) {
		return nil
	}
	changed, err := s.orders.UpdateStatus(ctx, order, from)
	if err != nil {
		return fmt.Errorf("mark order %d paid: %w", order.ID, err)
	}
	if !changed {
		s.logger.Info("order left pending before payment completed", zap.Uint64("order_id", order.ID), zap.Uint64("payment_id", p.ID))
		return nil
	}
	s.logger.Info("order paid", zap.Uint64("order_id", order.ID), zap.Uint64("payment_id", p.ID))

	evt := domain.PaymentCompletedEvent{
		PaymentID: p.ID,
		OrderID:   order.ID,
		Cost:      p.Cost,
		Method:    p.PaymentMethod,
		PaidAt:    now,
	}
	go s.publish(context.Background(), domain.EventPaymentCompleted, evt)
	return nil
}

func (s *PaymentService) publish(ctx context.Context, pattern string, evt any) {
	if err := s.publisher.Publish(ctx, pattern, evt); err != nil {
		s.logger.Error("failed to publish event", zap.String("pattern", pattern), zap.Error(err))
	}
}

func (s *PaymentService) order(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}
