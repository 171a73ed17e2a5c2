package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/order/domain"
	"github.com/example/storefront/pkg/apperror"
	"github.com/example/storefront/pkg/tracing"
	"github.com/example/storefront/pkg/validate"
)

type Service struct {
	repo    OrderRepository
	catalog ProductCatalog
}

func NewService(repo OrderRepository, catalog ProductCatalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

type LineInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type ShippingInput struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	Country    string `json:"country" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}

type CreateInput struct {
	Lines         []LineInput   `json:"lines" validate:"required,min=1,dive"`
	Shipping      ShippingInput `json:"shipping"`
	PaymentMethod string        `json:"payment_method" validate:"required"`
}

// Create assembles an order from a cart snapshot. Validation runs before any
// lookup or write; every product must resolve or the whole creation aborts;
// totals come from current catalog prices, never from the client.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (domain.Order, error) {
	if err := validate.Struct(in); err != nil {
		return domain.Order{}, err
	}

	lines := make([]domain.Line, 0, len(in.Lines))
	for _, li := range in.Lines {
		p, err := s.catalog.Get(ctx, li.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		lines = append(lines, domain.Line{
			ProductID:  p.ID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Quantity:   li.Quantity,
		})
	}

	o := domain.NewOrder(uuid.NewString(), userID, lines,
		domain.ShippingInfo(in.Shipping),
		domain.PaymentInfo{ID: uuid.NewString(), Method: in.PaymentMethod, Status: "pending"},
	)

	payload, err := json.Marshal(domain.OrderCreated{
		OrderID:    o.ID,
		UserID:     o.UserID,
		TotalCents: o.TotalCents,
		Method:     o.Payment.Method,
		Lines:      o.Lines,
	})
	if err != nil {
		return domain.Order{}, apperror.Internal(err)
	}
	if err := s.repo.CreateWithOutbox(ctx, o, "OrderCreated", payload, tracing.Traceparent(ctx)); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// Get returns an order to its owner, or to a caller with manageOrders.
func (s *Service) Get(ctx context.Context, callerID string, manageOrders bool, id string) (domain.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if o.UserID != callerID && !manageOrders {
		return domain.Order{}, apperror.Forbidden("not the order's owner")
	}
	return o, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus moves an order forward. Backwards transitions are rejected
// and Delivered orders reject any further update. Stock is decremented
// exactly once, when the order leaves Processing; it was deliberately not
// reserved at checkout.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, apperror.Validation(apperror.FieldError{Field: "status", Message: "must be one of: Processing Shipped Delivered"})
	}

	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Status == domain.StatusDelivered {
		return domain.Order{}, apperror.Conflict("order already delivered")
	}
	if status.Rank() < o.Status.Rank() {
		return domain.Order{}, apperror.Conflict("order status cannot move backwards")
	}

	decrement := o.Status == domain.StatusProcessing && status != domain.StatusProcessing
	o.Status = status
	if status == domain.StatusDelivered {
		now := time.Now().UTC()
		o.DeliveredAt = &now
	}

	payload, err := json.Marshal(domain.OrderStatusUpdated{OrderID: o.ID, Status: o.Status})
	if err != nil {
		return domain.Order{}, apperror.Internal(err)
	}
	if err := s.repo.UpdateStatusWithOutbox(ctx, o, decrement, "OrderStatusUpdated", payload, tracing.Traceparent(ctx)); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}
