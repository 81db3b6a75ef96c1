package services

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrLineItemNotFound = errors.New("order item not found")
	ErrPaymentNotFound  = errors.New("payment not found")

	ErrOrderAlreadyPaid = errors.New("cannot pay an already-paid order")
	ErrOrderNotPaid     = errors.New("order is not in paid status")
	ErrProductInUse     = errors.New("product is referenced by order items")
	ErrOrderHasPayments = errors.New("order has payments")

	// ErrPaymentDeleteForbidden is returned by every payment delete, after
	// the payment has been voided.
	ErrPaymentDeleteForbidden = errors.New("payments cannot be deleted")
)

const PageSize = 10

func pageOffset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}
