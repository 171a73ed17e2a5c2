package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/catalog/domain"
	"github.com/example/storefront/pkg/apperror"
	"github.com/example/storefront/pkg/validate"
)

type Service struct {
	repo ProductRepository
}

func NewService(repo ProductRepository) *Service {
	return &Service{repo: repo}
}

type ProductInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	PriceCents  int64           `json:"price_cents" validate:"gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Category    domain.Category `json:"category" validate:"required"`
	Images      []domain.Image  `json:"images"`
}

func (in ProductInput) check() error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if !in.Category.Valid() {
		return apperror.Validation(apperror.FieldError{Field: "category", Message: "unknown category"})
	}
	return nil
}

func (s *Service) Create(ctx context.Context, sellerID string, in ProductInput) (domain.Product, error) {
	if err := in.check(); err != nil {
		return domain.Product{}, err
	}
	p := domain.NewProduct(uuid.NewString(), in.Name, in.Description, in.PriceCents, in.Stock, in.Category, sellerID, in.Images)
	if err := s.repo.Create(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Product, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	return s.repo.List(ctx, f)
}

// Update rewrites a product's editable fields. callerID must own the product
// unless manageAll is set (admin).
func (s *Service) Update(ctx context.Context, callerID string, manageAll bool, id string, in ProductInput) (domain.Product, error) {
	if err := in.check(); err != nil {
		return domain.Product{}, err
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !manageAll && p.SellerID != callerID {
		return domain.Product{}, apperror.Forbidden("not the product's seller")
	}

	p.Name = in.Name
	p.Description = in.Description
	p.PriceCents = in.PriceCents
	p.Stock = in.Stock
	p.Category = in.Category
	p.Images = in.Images
	if err := s.repo.Update(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, callerID string, manageAll bool, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !manageAll && p.SellerID != callerID {
		return apperror.Forbidden("not the product's seller")
	}
	return s.repo.Delete(ctx, id)
}

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment"`
}

// UpsertReview records the caller's review of a product, overwriting any
// earlier one, and persists the recomputed aggregate.
func (s *Service) UpsertReview(ctx context.Context, productID, userID, userName string, in ReviewInput) (domain.Product, error) {
	if err := validate.Struct(in); err != nil {
		return domain.Product{}, err
	}
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	isNew := p.UpsertReview(uuid.NewString(), userID, userName, in.Rating, in.Comment)

	var stored domain.Review
	for _, r := range p.Reviews {
		if r.UserID == userID {
			stored = r
			break
		}
	}
	if err := s.repo.UpsertReview(ctx, productID, stored, isNew, p.Rating, p.NumReviews); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *Service) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return p.Reviews, nil
}

// DeleteReview removes a review; allowed for its author or a caller with
// manageAll.
func (s *Service) DeleteReview(ctx context.Context, callerID string, manageAll bool, productID, reviewID string) (domain.Product, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	var owner string
	found := false
	for _, r := range p.Reviews {
		if r.ID == reviewID {
			owner = r.UserID
			found = true
			break
		}
	}
	if !found {
		return domain.Product{}, apperror.NotFound("review")
	}
	if !manageAll && owner != callerID {
		return domain.Product{}, apperror.Forbidden("not the review's author")
	}

	p.RemoveReview(reviewID)
	if err := s.repo.DeleteReview(ctx, productID, reviewID, p.Rating, p.NumReviews); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
