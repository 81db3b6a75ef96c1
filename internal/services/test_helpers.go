package services

import (
	"time"

	"order-desk/internal/domain"

	"github.com/shopspring/decimal"
)

func CreateMockProduct(id uint64, name string, price string) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        name,
		ImageRef:    "uploads/2024/10/14/test_image.jpg",
		Width:       640,
		Height:      480,
		Description: "test info",
		Price:       decimal.RequireFromString(price),
	}
}

func CreateMockOrder(id uint64, status domain.OrderStatus, items ...domain.OrderItem) *domain.Order {
	o := &domain.Order{
		ID:        id,
		Status:    status,
		CreatedAt: time.Now(),
		Items:     items,
	}
	o.TotalCost = domain.TotalCost(items)
	if status.AtLeast(domain.StatusPaid) {
		paid := time.Now()
		o.PaymentDate = &paid
	}
	return o
}

func CreateMockItem(id, orderID uint64, product *domain.Product, qty int) domain.OrderItem {
	return domain.OrderItem{
		ID:        id,
		OrderID:   orderID,
		ProductID: product.ID,
		Quantity:  qty,
		Product:   product,
	}
}

const (
	TestProductID = uint64(1)
	TestOrderID   = uint64(1)
	TestPaymentID = uint64(1)
)
