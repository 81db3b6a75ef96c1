package http

import (
	"time"

	"order-desk/internal/domain"
	"order-desk/internal/services"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	ImageRef    string          `json:"image" binding:"required"`
	Width       uint            `json:"width"`
	Height      uint            `json:"height"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func (r CreateProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		Name:        r.Name,
		ImageRef:    r.ImageRef,
		Width:       r.Width,
		Height:      r.Height,
		Description: r.Description,
		Price:       r.Price,
	}
}

type LineItemRequest struct {
	ProductID uint64 `json:"product" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []LineItemRequest `json:"items"`
}

func (r CreateOrderRequest) toInputs() []services.LineItemInput {
	out := make([]services.LineItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, services.LineItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

type UpdateLineItemRequest struct {
	ProductID *uint64 `json:"product"`
	Quantity  *int    `json:"quantity"`
}

type CreatePaymentRequest struct {
	OrderID     uint64 `json:"order" binding:"required"`
	PaymentType string `json:"payment_type"`
}

type UpdatePaymentRequest struct {
	PaymentType string `json:"payment_type" binding:"required"`
}

type ProductResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	ImageRef    string `json:"image"`
	Width       uint   `json:"width"`
	Height      uint   `json:"height"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

func newProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		ImageRef:    p.ImageRef,
		Width:       p.Width,
		Height:      p.Height,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
	}
}

type LineItemResponse struct {
	ID        uint64 `json:"id"`
	OrderID   uint64 `json:"order"`
	ProductID uint64 `json:"product"`
	Quantity  int    `json:"quantity"`
}

func newLineItemResponse(it *domain.OrderItem) LineItemResponse {
	return LineItemResponse{
		ID:        it.ID,
		OrderID:   it.OrderID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
	}
}

type OrderResponse struct {
	ID            uint64             `json:"id"`
	TotalCost     string             `json:"total_cost"`
	Status        string             `json:"status"`
	StatusDisplay string             `json:"status_display"`
	CreatedAt     time.Time          `json:"created_at"`
	PaymentDate   *time.Time         `json:"payment_date"`
	ConfirmedDate *time.Time         `json:"confirmed_date"`
	Items         []LineItemResponse `json:"items"`
}

func newOrderResponse(o *domain.Order) OrderResponse {
	items := make([]LineItemResponse, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, newLineItemResponse(&o.Items[i]))
	}
	return OrderResponse{
		ID:            o.ID,
		TotalCost:     o.TotalCost.StringFixed(2),
		Status:        string(o.Status),
		StatusDisplay: orderStatusDisplay[o.Status],
		CreatedAt:     o.CreatedAt,
		PaymentDate:   o.PaymentDate,
		ConfirmedDate: o.ConfirmedDate,
		Items:         items,
	}
}

type PaymentResponse struct {
	ID            uint64    `json:"id"`
	OrderID       uint64    `json:"order"`
	Cost          string    `json:"cost"`
	Status        string    `json:"status"`
	StatusDisplay string    `json:"status_display"`
	PaymentType   string    `json:"payment_type"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Cost:          p.Cost.StringFixed(2),
		Status:        string(p.Status),
		StatusDisplay: paymentStatusDisplay[p.Status],
		PaymentType:   string(p.PaymentMethod),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

var orderStatusDisplay = map[domain.OrderStatus]string{
	domain.StatusPending:   "Pending",
	domain.StatusPaid:      "Paid",
	domain.StatusConfirmed: "Confirmed",
}

var paymentStatusDisplay = map[domain.PaymentStatus]string{
	domain.PaymentPending:   "Pending",
	domain.PaymentCompleted: "Completed",
	domain.PaymentFailed:    "Failed",
	domain.PaymentVoided:    "Voided",
}
