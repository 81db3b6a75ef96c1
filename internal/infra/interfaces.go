package infra

import (
	"context"

	"order-desk/internal/domain"
)

// OrderNotifier tells the external order system about a confirmed order.
// It reports the outcome instead of returning an error.
type OrderNotifier interface {
	NotifyConfirmed(ctx context.Context, order *domain.Order) bool
}

// ProductCache is a read-through cache for catalog entries. Get returns
// (nil, nil) on a miss.
type ProductCache interface {
	Get(ctx context.Context, id uint64) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint64) error
}

// IdempotencyStore reserves client supplied keys so a retried request is
// processed once.
type IdempotencyStore interface {
	Reserve(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
}

var _ OrderNotifier = (*NotificationClient)(nil)
