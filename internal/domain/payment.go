package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentVoided    PaymentStatus = "voided"
)

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "Credit Card"
	MethodPayPal       PaymentMethod = "PayPal"
	MethodBankTransfer PaymentMethod = "Bank Transfer"

	DefaultPaymentMethod = MethodBankTransfer
)

var paymentMethods = map[PaymentMethod]struct{}{
	MethodCreditCard:   {},
	MethodPayPal:       {},
	MethodBankTransfer: {},
}

// ParsePaymentMethod maps an empty value to the default method and rejects
// anything outside the known set.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if s == "" {
		return DefaultPaymentMethod, nil
	}
	m := PaymentMethod(s)
	if _, ok := paymentMethods[m]; !ok {
		return "", &ValidationError{Field: "payment_type", Message: "unknown payment method " + s}
	}
	return m, nil
}

type Payment struct {
	ID            uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID       uint64          `json:"orderId" gorm:"not null;index"`
	Cost          decimal.Decimal `json:"cost" gorm:"type:decimal(25,2);not null;default:0"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(10);not null;default:'pending'"`
	PaymentMethod PaymentMethod   `json:"paymentType" gorm:"type:varchar(25);not null"`
	CreatedAt     time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
	Order         *Order          `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

// AssignCost snapshots the order total into an unset cost. A cost that is
// already set is left alone.
func (p *Payment) AssignCost(orderTotal decimal.Decimal) {
	if p.Cost.IsZero() {
		p.Cost = orderTotal
	}
}

func (p *Payment) Void() {
	p.Status = PaymentVoided
}
