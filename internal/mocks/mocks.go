package mocks

import (
	"context"

	"order-desk/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

type MockOrderRepository struct {
	mock.Mock
}

type MockPaymentRepository struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockNotifier struct {
	mock.Mock
}

type MockProductCache struct {
	mock.Mock
}

type MockIdempotencyStore struct {
	mock.Mock
}

type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, pattern string, data any) error {
	args := m.Called(ctx, pattern, data)
	return args.Error(0)
}

func (m *MockNotifier) NotifyConfirmed(ctx context.Context, order *domain.Order) bool {
	args := m.Called(ctx, order)
	return args.Bool(0)
}

func (m *MockProductCache) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductCache) Set(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductCache) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, scope, key string) (bool, error) {
	args := m.Called(ctx, scope, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, scope, key string) error {
	args := m.Called(ctx, scope, key)
	return args.Error(0)
}

func (m *MockPaymentProcessor) Process(ctx context.Context, payment *domain.Payment) (domain.PaymentStatus, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(domain.PaymentStatus), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, offset, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) CountLineItems(ctx context.Context, productID uint64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateTotal(ctx context.Context, id uint64, total decimal.Decimal) error {
	args := m.Called(ctx, id, total)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) (bool, error) {
	args := m.Called(ctx, order, from)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, offset, limit int) ([]domain.Order, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateItem(ctx context.Context, item *domain.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateItem(ctx context.Context, item *domain.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteItem(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) FindItemByID(ctx context.Context, id uint64) (*domain.OrderItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderItem), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uint64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByOrderID(ctx context.Context, orderID uint64) ([]domain.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CountByOrderID(ctx context.Context, orderID uint64) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}
