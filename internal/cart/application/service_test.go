package application

import (
	"context"
	"testing"

	"github.com/example/storefront/internal/cart/domain"
	catalogdomain "github.com/example/storefront/internal/catalog/domain"
	"github.com/example/storefront/pkg/apperror"
)

type memStore struct {
	lines map[string][]domain.Line
	saves int
}

func newMemStore() *memStore {
	return &memStore{lines: map[string][]domain.Line{}}
}

func (m *memStore) Load(_ context.Context, userID string) ([]domain.Line, error) {
	return m.lines[userID], nil
}

func (m *memStore) Save(_ context.Context, userID string, lines []domain.Line) error {
	m.saves++
	m.lines[userID] = lines
	return nil
}

type stubProducts map[string]catalogdomain.Product

func (s stubProducts) Get(_ context.Context, id string) (catalogdomain.Product, error) {
	p, ok := s[id]
	if !ok {
		return catalogdomain.Product{}, apperror.NotFound("product")
	}
	return p, nil
}

func fixture() (*Service, *memStore) {
	store := newMemStore()
	products := stubProducts{
		"p1": catalogdomain.NewProduct("p1", "Widget", "", 1000, 3, catalogdomain.CategoryHome, "s1", nil),
		"p2": catalogdomain.NewProduct("p2", "Gadget", "", 500, 10, catalogdomain.CategoryHome, "s1", nil),
	}
	return NewService(store, products), store
}

func TestAddItem_CapturesStockSnapshot(t *testing.T) {
	svc, store := fixture()
	ctx := context.Background()

	c, err := svc.AddItem(ctx, "u1", "p1", 2)
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if len(c.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1", len(c.Lines))
	}
	if got := c.Lines[0].StockSnapshot; got != 3 {
		t.Errorf("StockSnapshot = %d, want 3", got)
	}
	if store.saves != 1 {
		t.Errorf("store saves = %d, want 1", store.saves)
	}
}

func TestAddItem_UnknownProductFailsWithNotFound(t *testing.T) {
	svc, store := fixture()

	_, err := svc.AddItem(context.Background(), "u1", "nope", 1)
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("AddItem() error kind = %v, want not-found", apperror.KindOf(err))
	}
	if store.saves != 0 {
		t.Errorf("store saves = %d, want 0", store.saves)
	}
}

func TestAddItem_RejectedIncreaseDoesNotSave(t *testing.T) {
	svc, store := fixture()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "p1", 3); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	savesBefore := store.saves

	c, err := svc.AddItem(ctx, "u1", "p1", 1)
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if got := c.Lines[0].Quantity; got != 3 {
		t.Errorf("Quantity = %d, want 3 (increase past snapshot ignored)", got)
	}
	if store.saves != savesBefore {
		t.Errorf("store saves = %d, want %d (no-op must not persist)", store.saves, savesBefore)
	}
}

func TestUpdateQuantity_NoOpAndRemove(t *testing.T) {
	svc, store := fixture()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "p2", 2); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	savesBefore := store.saves

	c, err := svc.UpdateQuantity(ctx, "u1", "p2", 11)
	if err != nil {
		t.Fatalf("UpdateQuantity() error = %v", err)
	}
	if got := c.Lines[0].Quantity; got != 2 {
		t.Errorf("Quantity = %d, want 2 after over-snapshot update", got)
	}
	if store.saves != savesBefore {
		t.Errorf("store saves = %d, want %d", store.saves, savesBefore)
	}

	c, err = svc.UpdateQuantity(ctx, "u1", "p2", 0)
	if err != nil {
		t.Fatalf("UpdateQuantity() error = %v", err)
	}
	if len(c.Lines) != 0 {
		t.Errorf("len(Lines) = %d, want 0 after quantity 0", len(c.Lines))
	}
}

func TestClear_EmptiesStoredCart(t *testing.T) {
	svc, store := fixture()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "p2", 2); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if err := svc.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	c, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(c.Lines) != 0 || c.TotalCents() != 0 {
		t.Errorf("cart after Clear() = %+v, want empty", c)
	}
	if store.lines["u1"] != nil {
		t.Errorf("stored lines = %v, want nil", store.lines["u1"])
	}
}
