package application

import (
	"context"
	"log/slog"

	orderdomain "github.com/example/storefront/internal/order/domain"
)

const (
	StatusSucceeded = "succeeded"
)

// Service simulates payment capture. There is no gateway behind it: every
// capture succeeds after being logged, which is all the storefront needs.
type Service struct {
	log    *slog.Logger
	orders OrderPayments
}

func NewService(log *slog.Logger, orders OrderPayments) *Service {
	return &Service{log: log, orders: orders}
}

func (s *Service) HandleOrderCreated(ctx context.Context, ev orderdomain.OrderCreated) error {
	s.log.Info("capturing payment",
		"order_id", ev.OrderID,
		"method", ev.Method,
		"total_cents", ev.TotalCents,
	)
	return s.orders.UpdatePaymentStatus(ctx, ev.OrderID, StatusSucceeded)
}
