package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	accountdomain "github.com/example/storefront/internal/account/domain"
	accounthttp "github.com/example/storefront/internal/account/infrastructure/http"
	"github.com/example/storefront/internal/catalog/application"
	"github.com/example/storefront/internal/catalog/domain"
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
		tracer:  otel.Tracer("catalog-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/reviews", h.listReviews)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Put("/{id}/reviews", h.upsertReview)
		r.Delete("/{id}/reviews/{reviewID}", h.deleteReview)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate, h.mw.Require(accountdomain.CapManageOwnProducts))
		r.Post("/new", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := application.ListFilter{
		Category: domain.Category(q.Get("category")),
		Keyword:  q.Get("keyword"),
	}
	f.MinPriceCents, _ = strconv.ParseInt(q.Get("price_min"), 10, 64)
	f.MaxPriceCents, _ = strconv.ParseInt(q.Get("price_max"), 10, 64)
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	products, total, err := h.service.List(r.Context(), f)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	resp := make([]productResp, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResp(p))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"products": resp, "total": total})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductResp(p))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateProduct")
	defer span.End()

	var in application.ProductInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	id, _ := accounthttp.IdentityFrom(ctx)
	p, err := h.service.Create(ctx, id.UserID, in)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProductResp(p))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateProduct")
	defer span.End()

	var in application.ProductInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	id, _ := accounthttp.IdentityFrom(ctx)
	p, err := h.service.Update(ctx, id.UserID, id.Can(accountdomain.CapManageAllProducts), chi.URLParam(r, "id"), in)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductResp(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := accounthttp.IdentityFrom(r.Context())
	err := h.service.Delete(r.Context(), id.UserID, id.Can(accountdomain.CapManageAllProducts), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *Handler) upsertReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpsertReview")
	defer span.End()

	var in application.ReviewInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	id, _ := accounthttp.IdentityFrom(ctx)
	p, err := h.service.UpsertReview(ctx, chi.URLParam(r, "id"), id.UserID, id.Name, in)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductResp(p))
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	resp := make([]reviewResp, 0, len(reviews))
	for _, rv := range reviews {
		resp = append(resp, toReviewResp(rv))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, _ := accounthttp.IdentityFrom(r.Context())
	p, err := h.service.DeleteReview(r.Context(), id.UserID, id.Can(accountdomain.CapManageAllProducts),
		chi.URLParam(r, "id"), chi.URLParam(r, "reviewID"))
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductResp(p))
}
