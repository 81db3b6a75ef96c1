package repository

import (
	"context"

	"order-desk/internal/domain"

	"github.com/shopspring/decimal"
)

// Finders return (nil, nil) when no row matches.

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	List(ctx context.Context, offset, limit int) ([]domain.Product, error)
	Delete(ctx context.Context, id uint64) error
	CountLineItems(ctx context.Context, productID uint64) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	// UpdateTotal writes total_cost only.
	UpdateTotal(ctx context.Context, id uint64, total decimal.Decimal) error
	// UpdateStatus writes the status and its dates only, and only while the
	// stored status still equals from. It reports whether the row changed.
	UpdateStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) (bool, error)
	// FindByID loads the order with its items and their products.
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	List(ctx context.Context, offset, limit int) ([]domain.Order, error)
	// Delete removes the order together with its line items.
	Delete(ctx context.Context, id uint64) error

	CreateItem(ctx context.Context, item *domain.OrderItem) error
	UpdateItem(ctx context.Context, item *domain.OrderItem) error
	DeleteItem(ctx context.Context, id uint64) (bool, error)
	FindItemByID(ctx context.Context, id uint64) (*domain.OrderItem, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	Update(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id uint64) (*domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID uint64) ([]domain.Payment, error)
	CountByOrderID(ctx context.Context, orderID uint64) (int64, error)
}
