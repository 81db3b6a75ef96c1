package services

import (
	"context"
	"fmt"

	"order-desk/internal/domain"
	"order-desk/internal/repository"

	"go.uber.org/zap"
)

type LineItemInput struct {
	ProductID uint64
	Quantity  int
}

// LineItemPatch carries the fields of a line item update; nil means unchanged.
type LineItemPatch struct {
	ProductID *uint64
	Quantity  *int
}

type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	payments repository.PaymentRepository
	logger   *zap.Logger
}

func NewOrderService(o repository.OrderRepository, p repository.ProductRepository, pay repository.PaymentRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:   o,
		products: p,
		payments: pay,
		logger:   logger,
	}
}

// CreateOrder checks every requested item before the order is written, then
// adds the items one by one so the total is recomputed after each insert.
func (s *OrderService) CreateOrder(ctx context.Context, items []LineItemInput) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, &domain.ValidationError{Field: "orderitem", Message: "the order must contain at least one product"}
	}

	for _, in := range items {
		if err := domain.ValidateQuantity(in.Quantity); err != nil {
			return nil, err
		}
		if _, err := s.product(ctx, in.ProductID); err != nil {
			return nil, err
		}
	}

	order := &domain.Order{Status: domain.StatusPending}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	for _, in := range items {
		item := &domain.OrderItem{OrderID: order.ID, ProductID: in.ProductID, Quantity: in.Quantity}
		if err := s.orders.CreateItem(ctx, item); err != nil {
			return nil, err
		}
		if _, err := s.RecomputeTotal(ctx, order.ID); err != nil {
			return nil, err
		}
	}

	out, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order created",
		zap.Uint64("order_id", out.ID),
		zap.Int("items", len(out.Items)),
		zap.String("total_cost", out.TotalCost.StringFixed(2)),
	)
	return out, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, page int) ([]domain.Order, error) {
	return s.orders.List(ctx, pageOffset(page), PageSize)
}

// DeleteOrder removes the order and its items. Orders with payments are kept.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint64) error {
	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}

	n, err := s.payments.CountByOrderID(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrOrderHasPayments
	}
	return s.orders.Delete(ctx, id)
}

// RecomputeTotal sets the order total to the sum of price × quantity over its
// current items and persists it.
func (s *OrderService) RecomputeTotal(ctx context.Context, orderID uint64) (*domain.Order, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	o.TotalCost = domain.TotalCost(o.Items)
	if err := s.orders.UpdateTotal(ctx, o.ID, o.TotalCost); err != nil {
		return nil, fmt.Errorf("update total of order %d: %w", orderID, err)
	}
	return o, nil
}

func (s *OrderService) AddLineItem(ctx context.Context, orderID uint64, in LineItemInput) (*domain.OrderItem, error) {
	if err := domain.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	if _, err := s.product(ctx, in.ProductID); err != nil {
		return nil, err
	}

	item := &domain.OrderItem{OrderID: orderID, ProductID: in.ProductID, Quantity: in.Quantity}
	if err := s.orders.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	if _, err := s.RecomputeTotal(ctx, orderID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *OrderService) UpdateLineItem(ctx context.Context, itemID uint64, patch LineItemPatch) (*domain.OrderItem, error) {
	item, err := s.orders.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrLineItemNotFound
	}

	if patch.Quantity != nil {
		if err := domain.ValidateQuantity(*patch.Quantity); err != nil {
			return nil, err
		}
		item.Quantity = *patch.Quantity
	}
	if patch.ProductID != nil {
		if _, err := s.product(ctx, *patch.ProductID); err != nil {
			return nil, err
		}
		item.ProductID = *patch.ProductID
	}

	if err := s.orders.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	if _, err := s.RecomputeTotal(ctx, item.OrderID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *OrderService) DeleteLineItem(ctx context.Context, itemID uint64) error {
	item, err := s.orders.FindItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrLineItemNotFound
	}

	deleted, err := s.orders.DeleteItem(ctx, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLineItemNotFound
	}

	_, err = s.RecomputeTotal(ctx, item.OrderID)
	return err
}

func (s *OrderService) product(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return p, nil
}
