package application

import (
	"context"

	"github.com/example/storefront/internal/catalog/domain"
)

// ListFilter narrows and pages a product listing. Zero values mean "no
// constraint".
type ListFilter struct {
	Category      domain.Category
	Keyword       string
	MinPriceCents int64
	MaxPriceCents int64
	Page          int
	PerPage       int
}

type ProductRepository interface {
	Create(ctx context.Context, p domain.Product) error
	// Get returns the product with its reviews loaded.
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, f ListFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error

	// UpsertReview persists one review mutation together with the product's
	// recomputed aggregate in a single transaction.
	UpsertReview(ctx context.Context, productID string, r domain.Review, isNew bool, rating float64, numReviews int) error
	DeleteReview(ctx context.Context, productID, reviewID string, rating float64, numReviews int) error
}
