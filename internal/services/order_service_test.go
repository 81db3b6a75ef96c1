package services

import (
	"context"
	"errors"
	"testing"

	"order-desk/internal/domain"
	"order-desk/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrderService() (*OrderService, *mocks.MockOrderRepository, *mocks.MockProductRepository, *mocks.MockPaymentRepository) {
	orders := new(mocks.MockOrderRepository)
	products := new(mocks.MockProductRepository)
	payments := new(mocks.MockPaymentRepository)
	return NewOrderService(orders, products, payments, zap.NewNop()), orders, products, payments
}

func TestOrderService_CreateOrder(t *testing.T) {
	productA := CreateMockProduct(1, "A", "200.00")
	productB := CreateMockProduct(2, "B", "100.00")

	tests := []struct {
		name          string
		items         []LineItemInput
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockProductRepository)
		expectedError string
		expectedTotal string
	}{
		{
			name:  "two items",
			items: []LineItemInput{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 2}},
			setupMocks: func(orders *mocks.MockOrderRepository, products *mocks.MockProductRepository) {
				products.On("FindByID", mock.Anything, uint64(1)).Return(productA, nil)
				products.On("FindByID", mock.Anything, uint64(2)).Return(productB, nil)

				orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Order).ID = TestOrderID
				})
				orders.On("CreateItem", mock.Anything, mock.AnythingOfType("*domain.OrderItem")).Return(nil).Twice()

				afterFirst := CreateMockOrder(TestOrderID, domain.StatusPending, CreateMockItem(1, TestOrderID, productA, 1))
				afterSecond := CreateMockOrder(TestOrderID, domain.StatusPending,
					CreateMockItem(1, TestOrderID, productA, 1),
					CreateMockItem(2, TestOrderID, productB, 2),
				)
				orders.On("FindByID", mock.Anything, TestOrderID).Return(afterFirst, nil).Once()
				orders.On("FindByID", mock.Anything, TestOrderID).Return(afterSecond, nil)
				orders.On("UpdateTotal", mock.Anything, TestOrderID, mock.AnythingOfType("decimal.Decimal")).Return(nil).Twice()
			},
			expectedTotal: "400",
		},
		{
			name:          "empty order",
			items:         nil,
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockProductRepository) {},
			expectedError: "at least one product",
		},
		{
			name:          "zero quantity",
			items:         []LineItemInput{{ProductID: 1, Quantity: 0}},
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockProductRepository) {},
			expectedError: "quantity must be at least 1",
		},
		{
			name:  "unknown product writes nothing",
			items: []LineItemInput{{ProductID: 1, Quantity: 1}, {ProductID: 999, Quantity: 1}},
			setupMocks: func(orders *mocks.MockOrderRepository, products *mocks.MockProductRepository) {
				products.On("FindByID", mock.Anything, uint64(1)).Return(productA, nil)
				products.On("FindByID", mock.Anything, uint64(999)).Return(nil, nil)
			},
			expectedError: "product not found",
		},
		{
			name:  "repository error",
			items: []LineItemInput{{ProductID: 1, Quantity: 1}},
			setupMocks: func(orders *mocks.MockOrderRepository, products *mocks.MockProductRepository) {
				products.On("FindByID", mock.Anything, uint64(1)).Return(productA, nil)
				orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(errors.New("database error"))
			},
			expectedError: "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, orders, products, _ := newOrderService()
			tt.setupMocks(orders, products)

			result, err := service.CreateOrder(context.Background(), tt.items)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, result)
				orders.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, TestOrderID, result.ID)
				assert.Equal(t, domain.StatusPending, result.Status)
				assert.True(t, decimal.RequireFromString(tt.expectedTotal).Equal(result.TotalCost))
			}

			orders.AssertExpectations(t)
			products.AssertExpectations(t)
		})
	}
}

func TestOrderService_CreateOrder_EmptyIsValidationError(t *testing.T) {
	service, _, _, _ := newOrderService()
	_, err := service.CreateOrder(context.Background(), []LineItemInput{})

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOrderService_RecomputeTotal(t *testing.T) {
	service, orders, _, _ := newOrderService()
	product := CreateMockProduct(1, "A", "19.99")

	stale := CreateMockOrder(TestOrderID, domain.StatusPending, CreateMockItem(1, TestOrderID, product, 3))
	stale.TotalCost = decimal.RequireFromString("1.00")
	orders.On("FindByID", mock.Anything, TestOrderID).Return(stale, nil)

	var saved decimal.Decimal
	orders.On("UpdateTotal", mock.Anything, TestOrderID, mock.AnythingOfType("decimal.Decimal")).Return(nil).Run(func(args mock.Arguments) {
		saved = args.Get(2).(decimal.Decimal)
	})

	o, err := service.RecomputeTotal(context.Background(), TestOrderID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("59.97").Equal(o.TotalCost))
	assert.True(t, decimal.RequireFromString("59.97").Equal(saved))
	orders.AssertExpectations(t)
}

func TestOrderService_AddLineItem(t *testing.T) {
	product := CreateMockProduct(1, "A", "200.00")

	tests := []struct {
		name          string
		in            LineItemInput
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockProductRepository)
		expectedError error
	}{
		{
			name: "adds and recomputes",
			in:   LineItemInput{ProductID: 1, Quantity: 6},
			setupMocks: func(orders *mocks.MockOrderRepository, products *mocks.MockProductRepository) {
				orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, domain.StatusPending), nil)
				products.On("FindByID", mock.Anything, uint64(1)).Return(product, nil)
				orders.On("CreateItem", mock.Anything, mock.AnythingOfType("*domain.OrderItem")).Return(nil)
				orders.On("UpdateTotal", mock.Anything, TestOrderID, mock.AnythingOfType("decimal.Decimal")).Return(nil).Once()
			},
		},
		{
			name: "order not found",
			in:   LineItemInput{ProductID: 1, Quantity: 1},
			setupMocks: func(orders *mocks.MockOrderRepository, products *mocks.MockProductRepository) {
				orders.On("FindByID", mock.Anything, TestOrderID).Return(nil, nil)
			},
			expectedError: ErrOrderNotFound,
		},
		{
			name: "product not found",
			in:   LineItemInput{ProductID: 5, Quantity: 1},
			setupMocks: func(orders *mocks.MockOrderRepository, products *mocks.MockProductRepository) {
				orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, domain.StatusPending), nil)
				products.On("FindByID", mock.Anything, uint64(5)).Return(nil, nil)
			},
			expectedError: ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, orders, products, _ := newOrderService()
			tt.setupMocks(orders, products)

			item, err := service.AddLineItem(context.Background(), TestOrderID, tt.in)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, item)
			} else {
				require.NoError(t, err)
				assert.Equal(t, TestOrderID, item.OrderID)
				assert.Equal(t, tt.in.Quantity, item.Quantity)
			}
			orders.AssertExpectations(t)
			products.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateLineItem(t *testing.T) {
	product := CreateMockProduct(1, "A", "200.00")

	t.Run("quantity change recomputes", func(t *testing.T) {
		service, orders, _, _ := newOrderService()
		item := &domain.OrderItem{ID: 3, OrderID: TestOrderID, ProductID: 1, Quantity: 1}
		orders.On("FindItemByID", mock.Anything, uint64(3)).Return(item, nil)
		orders.On("UpdateItem", mock.Anything, item).Return(nil)
		orders.On("FindByID", mock.Anything, TestOrderID).
			Return(CreateMockOrder(TestOrderID, domain.StatusPending, CreateMockItem(3, TestOrderID, product, 4)), nil)
		orders.On("UpdateTotal", mock.Anything, TestOrderID, mock.AnythingOfType("decimal.Decimal")).Return(nil).Once()

		qty := 4
		got, err := service.UpdateLineItem(context.Background(), 3, LineItemPatch{Quantity: &qty})
		require.NoError(t, err)
		assert.Equal(t, 4, got.Quantity)
		orders.AssertExpectations(t)
	})

	t.Run("invalid quantity is rejected before writing", func(t *testing.T) {
		service, orders, _, _ := newOrderService()
		orders.On("FindItemByID", mock.Anything, uint64(3)).Return(&domain.OrderItem{ID: 3, OrderID: TestOrderID, Quantity: 1}, nil)

		qty := 0
		_, err := service.UpdateLineItem(context.Background(), 3, LineItemPatch{Quantity: &qty})
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
		orders.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
	})

	t.Run("missing item", func(t *testing.T) {
		service, orders, _, _ := newOrderService()
		orders.On("FindItemByID", mock.Anything, uint64(3)).Return(nil, nil)

		_, err := service.UpdateLineItem(context.Background(), 3, LineItemPatch{})
		assert.ErrorIs(t, err, ErrLineItemNotFound)
	})
}

func TestOrderService_DeleteLineItem(t *testing.T) {
	t.Run("deletes and recomputes owning order", func(t *testing.T) {
		service, orders, _, _ := newOrderService()
		orders.On("FindItemByID", mock.Anything, uint64(2)).Return(&domain.OrderItem{ID: 2, OrderID: TestOrderID}, nil)
		orders.On("DeleteItem", mock.Anything, uint64(2)).Return(true, nil)
		orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, domain.StatusPending), nil)
		orders.On("UpdateTotal", mock.Anything, TestOrderID, mock.AnythingOfType("decimal.Decimal")).Return(nil).Once()

		require.NoError(t, service.DeleteLineItem(context.Background(), 2))
		orders.AssertExpectations(t)
	})

	t.Run("item already gone", func(t *testing.T) {
		service, orders, _, _ := newOrderService()
		orders.On("FindItemByID", mock.Anything, uint64(2)).Return(nil, nil)

		assert.ErrorIs(t, service.DeleteLineItem(context.Background(), 2), ErrLineItemNotFound)
		orders.AssertNotCalled(t, "UpdateTotal", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deleted concurrently", func(t *testing.T) {
		service, orders, _, _ := newOrderService()
		orders.On("FindItemByID", mock.Anything, uint64(2)).Return(&domain.OrderItem{ID: 2, OrderID: TestOrderID}, nil)
		orders.On("DeleteItem", mock.Anything, uint64(2)).Return(false, nil)

		assert.ErrorIs(t, service.DeleteLineItem(context.Background(), 2), ErrLineItemNotFound)
	})
}

func TestOrderService_DeleteOrder(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockPaymentRepository)
		expectedError error
	}{
		{
			name: "no payments",
			setupMocks: func(orders *mocks.MockOrderRepository, payments *mocks.MockPaymentRepository) {
				orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, domain.StatusPending), nil)
				payments.On("CountByOrderID", mock.Anything, TestOrderID).Return(int64(0), nil)
				orders.On("Delete", mock.Anything, TestOrderID).Return(nil)
			},
		},
		{
			name: "protected by payments",
			setupMocks: func(orders *mocks.MockOrderRepository, payments *mocks.MockPaymentRepository) {
				orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, domain.StatusPaid), nil)
				payments.On("CountByOrderID", mock.Anything, TestOrderID).Return(int64(1), nil)
			},
			expectedError: ErrOrderHasPayments,
		},
		{
			name: "not found",
			setupMocks: func(orders *mocks.MockOrderRepository, payments *mocks.MockPaymentRepository) {
				orders.On("FindByID", mock.Anything, TestOrderID).Return(nil, nil)
			},
			expectedError: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, orders, _, payments := newOrderService()
			tt.setupMocks(orders, payments)

			err := service.DeleteOrder(context.Background(), TestOrderID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			orders.AssertExpectations(t)
			payments.AssertExpectations(t)
		})
	}
}

func TestOrderService_ListOrders(t *testing.T) {
	service, orders, _, _ := newOrderService()
	orders.On("List", mock.Anything, 10, PageSize).Return([]domain.Order{{ID: 11}}, nil)

	out, err := service.ListOrders(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	orders.AssertExpectations(t)
}
