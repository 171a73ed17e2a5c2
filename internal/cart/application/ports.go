package application

import (
	"context"

	"github.com/example/storefront/internal/cart/domain"
	catalogdomain "github.com/example/storefront/internal/catalog/domain"
)

// Store persists a user's serialized line list. Implementations must treat a
// malformed stored value as an empty cart, never as an error.
type Store interface {
	Load(ctx context.Context, userID string) ([]domain.Line, error)
	Save(ctx context.Context, userID string, lines []domain.Line) error
}

// ProductSource resolves products when a line is first added, capturing the
// stock snapshot.
type ProductSource interface {
	Get(ctx context.Context, id string) (catalogdomain.Product, error)
}
