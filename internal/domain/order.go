package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusConfirmed OrderStatus = "confirmed"
)

// rank orders statuses so transitions can only move forward.
func (s OrderStatus) rank() int {
	switch s {
	case StatusPaid:
		return 1
	case StatusConfirmed:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether s is other or any later status.
func (s OrderStatus) AtLeast(other OrderStatus) bool {
	return s.rank() >= other.rank()
}

type Order struct {
	ID            uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	TotalCost     decimal.Decimal `json:"totalCost" gorm:"type:decimal(10,2);not null;default:0"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt     time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	PaymentDate   *time.Time      `json:"paymentDate"`
	ConfirmedDate *time.Time      `json:"confirmedDate"`
	Items         []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// MarkPaid moves a pending order to paid and stamps the payment date.
// It returns false when the order is already paid or confirmed.
func (o *Order) MarkPaid(at time.Time) bool {
	if o.Status.AtLeast(StatusPaid) {
		return false
	}
	o.Status = StatusPaid
	o.PaymentDate = &at
	return true
}

// Confirm moves the order to confirmed. Without a payment date, or when the
// order is already confirmed, it does nothing and returns false.
func (o *Order) Confirm(at time.Time) bool {
	if o.PaymentDate == nil || o.Status == StatusConfirmed {
		return false
	}
	o.Status = StatusConfirmed
	o.ConfirmedDate = &at
	return true
}

type OrderItem struct {
	ID        uint64   `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64   `json:"orderId" gorm:"not null;index"`
	ProductID uint64   `json:"productId" gorm:"not null;index"`
	Quantity  int      `json:"quantity" gorm:"not null"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// LineTotal is price × quantity. Items loaded without their product count as zero.
func (i OrderItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalCost sums the line totals of items.
func TotalCost(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func ValidateQuantity(qty int) error {
	if qty < 1 {
		return &ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}
	return nil
}
