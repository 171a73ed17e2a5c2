package application

import (
	"context"

	catalogdomain "github.com/example/storefront/internal/catalog/domain"
	"github.com/example/storefront/internal/order/domain"
)

type OrderRepository interface {
	// CreateWithOutbox persists the order and its event row in one
	// transaction.
	CreateWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	// UpdateStatusWithOutbox writes the new status, optionally decrements
	// product stock for every line, and queues the event in one transaction.
	UpdateStatusWithOutbox(ctx context.Context, o domain.Order, decrementStock bool, eventType string, payload []byte, traceparent string) error
	UpdatePaymentStatus(ctx context.Context, orderID, status string) error
}

// ProductCatalog resolves products at checkout for current pricing.
type ProductCatalog interface {
	Get(ctx context.Context, id string) (catalogdomain.Product, error)
}
