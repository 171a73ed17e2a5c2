package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	accountdomain "github.com/example/storefront/internal/account/domain"
	accounthttp "github.com/example/storefront/internal/account/infrastructure/http"
	"github.com/example/storefront/internal/order/application"
	"github.com/example/storefront/internal/order/domain"
	"github.com/example/storefront/pkg/apperror"
	"github.com/example/storefront/pkg/httpx"
	"github.com/example/storefront/pkg/idempotency"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	mw      *accounthttp.Middleware
	idem    *idempotency.Store
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service, mw *accounthttp.Middleware, idem *idempotency.Store) *Handler {
	return &Handler{
		log:     log,
		service: service,
		mw:      mw,
		idem:    idem,
		tracer:  otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.mw.Authenticate)
	r.Post("/new", h.create)
	r.Get("/me", h.listMine)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(accountdomain.CapManageOrders))
		r.Get("/admin", h.listAll)
		r.Put("/admin/{id}", h.updateStatus)
	})

	r.Get("/{id}", h.get)
	return r
}

type orderResp struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Lines       []domain.Line       `json:"lines"`
	Shipping    domain.ShippingInfo `json:"shipping"`
	Payment     domain.PaymentInfo  `json:"payment"`
	TotalCents  int64               `json:"total_cents"`
	Status      domain.Status       `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	DeliveredAt *time.Time          `json:"delivered_at,omitempty"`
}

func toOrderResp(o domain.Order) orderResp {
	lines := o.Lines
	if lines == nil {
		lines = []domain.Line{}
	}
	return orderResp{
		ID:          o.ID,
		UserID:      o.UserID,
		Lines:       lines,
		Shipping:    o.Shipping,
		Payment:     o.Payment,
		TotalCents:  o.TotalCents,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		DeliveredAt: o.DeliveredAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	id, _ := accounthttp.IdentityFrom(ctx)

	var idemKey string
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		idemKey = h.idem.RequestKey(id.UserID, key)
		seen, err := h.idem.Check(ctx, idemKey)
		if err != nil {
			httpx.WriteError(h.log, w, apperror.Internal(err))
			return
		}
		if seen {
			httpx.WriteError(h.log, w, apperror.Conflict("duplicate checkout request"))
			return
		}
	}

	var in application.CreateInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	o, err := h.service.Create(ctx, id.UserID, in)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	// The key is marked only once the order exists, so a failed checkout can
	// be retried with the same key.
	if idemKey != "" {
		if err := h.idem.Mark(ctx, idemKey); err != nil {
			h.log.Error("idempotency mark failed", "order_id", o.ID, "err", err)
		}
	}
	httpx.WriteJSON(w, http.StatusCreated, toOrderResp(o))
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	id, _ := accounthttp.IdentityFrom(r.Context())
	orders, err := h.service.ListByUser(r.Context(), id.UserID)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderResps(orders))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := accounthttp.IdentityFrom(r.Context())
	o, err := h.service.Get(r.Context(), id.UserID, id.Can(accountdomain.CapManageOrders), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderResp(o))
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderResps(orders))
}

type updateStatusReq struct {
	Status domain.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	var req updateStatusReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	o, err := h.service.UpdateStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderResp(o))
}

func toOrderResps(orders []domain.Order) []orderResp {
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResp(o))
	}
	return out
}
