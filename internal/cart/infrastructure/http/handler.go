package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	accounthttp "github.com/example/storefront/internal/account/infrastructure/http"
	"github.com/example/storefront/internal/cart/application"
	"github.com/example/storefront/internal/cart/domain"
	"github.com/example/storefront/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	mw      *accounthttp.Middleware
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service, mw *accounthttp.Middleware) *Handler {
	return &Handler{
		log:     log,
		service: service,
		mw:      mw,
		tracer:  otel.Tracer("cart-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.mw.Authenticate)
	r.Get("/", h.get)
	r.Post("/items", h.addItem)
	r.Put("/items/{productID}", h.updateQuantity)
	r.Delete("/items/{productID}", h.removeItem)
	r.Delete("/", h.clear)
	return r
}

type cartResp struct {
	Lines      []domain.Line `json:"lines"`
	TotalCents int64         `json:"total_cents"`
	Count      int           `json:"count"`
}

func toCartResp(c domain.Cart) cartResp {
	lines := c.Lines
	if lines == nil {
		lines = []domain.Line{}
	}
	return cartResp{Lines: lines, TotalCents: c.TotalCents(), Count: c.Count()}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := accounthttp.IdentityFrom(r.Context())
	c, err := h.service.Get(r.Context(), id.UserID)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCartResp(c))
}

type addItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddCartItem")
	defer span.End()

	var req addItemReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	id, _ := accounthttp.IdentityFrom(ctx)
	c, err := h.service.AddItem(ctx, id.UserID, req.ProductID, req.Quantity)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCartResp(c))
}

type updateQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	id, _ := accounthttp.IdentityFrom(r.Context())
	c, err := h.service.UpdateQuantity(r.Context(), id.UserID, chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCartResp(c))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, _ := accounthttp.IdentityFrom(r.Context())
	c, err := h.service.RemoveItem(r.Context(), id.UserID, chi.URLParam(r, "productID"))
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCartResp(c))
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	id, _ := accounthttp.IdentityFrom(r.Context())
	if err := h.service.Clear(r.Context(), id.UserID); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCartResp(domain.Cart{}))
}
