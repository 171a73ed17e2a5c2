package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/storefront/internal/catalog/domain"
	"github.com/example/storefront/pkg/apperror"
)

type memRepo struct {
	products map[string]domain.Product

	lastIsNew      bool
	upsertCalls    int
	lastAggRating  float64
	lastAggReviews int
}

func newMemRepo() *memRepo {
	return &memRepo{products: map[string]domain.Product{}}
}

func (m *memRepo) Create(_ context.Context, p domain.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *memRepo) Get(_ context.Context, id string) (domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, apperror.NotFound("product")
	}
	return p, nil
}

func (m *memRepo) List(_ context.Context, _ ListFilter) ([]domain.Product, int, error) {
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *memRepo) Update(_ context.Context, p domain.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return apperror.NotFound("product")
	}
	m.products[p.ID] = p
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return apperror.NotFound("product")
	}
	delete(m.products, id)
	return nil
}

func (m *memRepo) UpsertReview(_ context.Context, productID string, r domain.Review, isNew bool, rating float64, numReviews int) error {
	p, ok := m.products[productID]
	if !ok {
		return apperror.NotFound("product")
	}
	replaced := false
	for i := range p.Reviews {
		if p.Reviews[i].ID == r.ID {
			p.Reviews[i] = r
			replaced = true
		}
	}
	if !replaced {
		p.Reviews = append(p.Reviews, r)
	}
	p.Rating = rating
	p.NumReviews = numReviews
	m.products[productID] = p

	m.upsertCalls++
	m.lastIsNew = isNew
	m.lastAggRating = rating
	m.lastAggReviews = numReviews
	return nil
}

func (m *memRepo) DeleteReview(_ context.Context, productID, reviewID string, rating float64, numReviews int) error {
	p, ok := m.products[productID]
	if !ok {
		return apperror.NotFound("product")
	}
	kept := p.Reviews[:0]
	for _, r := range p.Reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	p.Reviews = kept
	p.Rating = rating
	p.NumReviews = numReviews
	m.products[productID] = p
	return nil
}

func validInput() ProductInput {
	return ProductInput{
		Name:        "Trail Camera",
		Description: "Weatherproof 4K trail camera",
		PriceCents:  12999,
		Stock:       8,
		Category:    domain.CategoryCameras,
	}
}

func TestCreate_RejectsUnknownCategory(t *testing.T) {
	svc := NewService(newMemRepo())

	in := validInput()
	in.Category = "Gadgets"
	_, err := svc.Create(context.Background(), "seller-1", in)
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("Create() error kind = %v, want KindValidation", apperror.KindOf(err))
	}

	var ae *apperror.Error
	if !errors.As(err, &ae) || len(ae.Fields) != 1 || ae.Fields[0].Field != "category" {
		t.Errorf("Fields = %+v, want one category entry", ae.Fields)
	}
}

func TestCreate_RejectsNegativePrice(t *testing.T) {
	svc := NewService(newMemRepo())

	in := validInput()
	in.PriceCents = -1
	_, err := svc.Create(context.Background(), "seller-1", in)
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("Create() error kind = %v, want KindValidation", apperror.KindOf(err))
	}
}

func TestCreate_StampsSeller(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "seller-1", validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.SellerID != "seller-1" {
		t.Errorf("SellerID = %q, want %q", p.SellerID, "seller-1")
	}
	if _, ok := repo.products[p.ID]; !ok {
		t.Error("product was not persisted")
	}
}

func TestUpdate_OwnershipCheck(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "seller-1", validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	in := validInput()
	in.PriceCents = 9999

	_, err = svc.Update(context.Background(), "seller-2", false, p.ID, in)
	if apperror.KindOf(err) != apperror.KindForbidden {
		t.Fatalf("Update() by non-owner: error kind = %v, want KindForbidden", apperror.KindOf(err))
	}

	got, err := svc.Update(context.Background(), "admin-1", true, p.ID, in)
	if err != nil {
		t.Fatalf("Update() with manageAll: error = %v", err)
	}
	if got.PriceCents != 9999 {
		t.Errorf("PriceCents = %d, want 9999", got.PriceCents)
	}
	if got.SellerID != "seller-1" {
		t.Errorf("SellerID = %q, update must not reassign the seller", got.SellerID)
	}
}

func TestDelete_OwnershipCheck(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "seller-1", validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), "seller-2", false, p.ID); apperror.KindOf(err) != apperror.KindForbidden {
		t.Fatalf("Delete() by non-owner: error kind = %v, want KindForbidden", apperror.KindOf(err))
	}
	if err := svc.Delete(context.Background(), "seller-1", false, p.ID); err != nil {
		t.Fatalf("Delete() by owner: error = %v", err)
	}
	if _, err := svc.Get(context.Background(), p.ID); apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("Get() after delete: error kind = %v, want KindNotFound", apperror.KindOf(err))
	}
}

func TestList_DefaultsPaging(t *testing.T) {
	svc := NewService(newMemRepo())

	if _, _, err := svc.List(context.Background(), ListFilter{Page: -3, PerPage: 1000}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
}

func TestUpsertReview_NewThenOverwrite(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "seller-1", validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.UpsertReview(context.Background(), p.ID, "user-1", "Ada", ReviewInput{Rating: 4, Comment: "solid"})
	if err != nil {
		t.Fatalf("UpsertReview() error = %v", err)
	}
	if !repo.lastIsNew {
		t.Error("first review persisted with isNew = false")
	}
	if got.Rating != 4 || got.NumReviews != 1 {
		t.Errorf("aggregate = (%v, %d), want (4, 1)", got.Rating, got.NumReviews)
	}

	got, err = svc.UpsertReview(context.Background(), p.ID, "user-1", "Ada", ReviewInput{Rating: 2, Comment: "changed my mind"})
	if err != nil {
		t.Fatalf("UpsertReview() overwrite error = %v", err)
	}
	if repo.lastIsNew {
		t.Error("overwrite persisted with isNew = true")
	}
	if got.Rating != 2 || got.NumReviews != 1 {
		t.Errorf("aggregate after overwrite = (%v, %d), want (2, 1)", got.Rating, got.NumReviews)
	}
	if repo.upsertCalls != 2 {
		t.Errorf("upsert calls = %d, want 2", repo.upsertCalls)
	}
}

func TestUpsertReview_RejectsOutOfRangeRating(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "seller-1", validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.UpsertReview(context.Background(), p.ID, "user-1", "Ada", ReviewInput{Rating: 6})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("UpsertReview() error kind = %v, want KindValidation", apperror.KindOf(err))
	}
	if repo.upsertCalls != 0 {
		t.Errorf("upsert calls = %d, want 0 after rejected input", repo.upsertCalls)
	}
}

func TestDeleteReview_AuthorOnly(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "seller-1", validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.UpsertReview(context.Background(), p.ID, "user-1", "Ada", ReviewInput{Rating: 5}); err != nil {
		t.Fatalf("UpsertReview() error = %v", err)
	}
	reviews, err := svc.ListReviews(context.Background(), p.ID)
	if err != nil || len(reviews) != 1 {
		t.Fatalf("ListReviews() = %v, %v, want one review", reviews, err)
	}
	reviewID := reviews[0].ID

	_, err = svc.DeleteReview(context.Background(), "user-2", false, p.ID, reviewID)
	if apperror.KindOf(err) != apperror.KindForbidden {
		t.Fatalf("DeleteReview() by stranger: error kind = %v, want KindForbidden", apperror.KindOf(err))
	}

	got, err := svc.DeleteReview(context.Background(), "user-1", false, p.ID, reviewID)
	if err != nil {
		t.Fatalf("DeleteReview() by author: error = %v", err)
	}
	if got.Rating != 0 || got.NumReviews != 0 {
		t.Errorf("aggregate after delete = (%v, %d), want (0, 0)", got.Rating, got.NumReviews)
	}
}

func TestDeleteReview_AbsentReview(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "seller-1", validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.DeleteReview(context.Background(), "admin-1", true, p.ID, "no-such-review")
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("DeleteReview() error kind = %v, want KindNotFound", apperror.KindOf(err))
	}
}
