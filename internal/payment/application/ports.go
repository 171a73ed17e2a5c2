package application

import "context"

// OrderPayments records capture results on the owning order.
type OrderPayments interface {
	UpdatePaymentStatus(ctx context.Context, orderID, status string) error
}
