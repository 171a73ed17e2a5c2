package application

import (
	"context"

	"github.com/example/storefront/internal/cart/domain"
)

// Service round-trips a user's cart through the store on every mutation, the
// same way the browser build wrote local storage after each action.
type Service struct {
	store    Store
	products ProductSource
}

func NewService(store Store, products ProductSource) *Service {
	return &Service{store: store, products: products}
}

func (s *Service) load(ctx context.Context, userID string) (domain.Cart, error) {
	lines, err := s.store.Load(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{Lines: lines}, nil
}

func (s *Service) Get(ctx context.Context, userID string) (domain.Cart, error) {
	return s.load(ctx, userID)
}

// AddItem resolves the product and merges it into the cart. The line's stock
// snapshot is the product's stock right now; later increases are bounded by
// it. A rejected increase returns the cart unchanged, not an error.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0].URL
	}
	changed := c.Add(domain.Line{
		ProductID:     p.ID,
		Name:          p.Name,
		PriceCents:    p.PriceCents,
		Image:         image,
		StockSnapshot: p.Stock,
		Quantity:      quantity,
	})
	if !changed {
		return c, nil
	}
	return c, s.store.Save(ctx, userID, c.Lines)
}

// UpdateQuantity applies the quantity rules: zero or negative removes the
// line, above-snapshot is a silent no-op.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	if !c.UpdateQuantity(productID, quantity) {
		return c, nil
	}
	return c, s.store.Save(ctx, userID, c.Lines)
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (domain.Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	if !c.Remove(productID) {
		return c, nil
	}
	return c, s.store.Save(ctx, userID, c.Lines)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.store.Save(ctx, userID, nil)
}
