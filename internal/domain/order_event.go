package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventPaymentCompleted = "payment.completed"
	EventOrderConfirmed   = "order.confirmed"
)

type PaymentCompletedEvent struct {
	PaymentID uint64          `json:"paymentId"`
	OrderID   uint64          `json:"orderId"`
	Cost      decimal.Decimal `json:"cost"`
	Method    PaymentMethod   `json:"paymentType"`
	PaidAt    time.Time       `json:"paidAt"`
}

type OrderConfirmedEvent struct {
	OrderID     uint64          `json:"orderId"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	ConfirmedAt time.Time       `json:"confirmedAt"`
	Notified    bool            `json:"notified"`
}
