package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/example/storefront/internal/account/application"
	"github.com/example/storefront/internal/account/domain"
	"github.com/example/storefront/pkg/apperror"
	"github.com/example/storefront/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	mw      *Middleware
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service, mw *Middleware) *Handler {
	return &Handler{
		log:     log,
		service: service,
		mw:      mw,
		tracer:  otel.Tracer("account-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Get("/logout", h.logout)
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Get("/me", h.me)
	})
	return r
}

// AdminRoutes exposes user management, admin only.
func (h *Handler) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.mw.Authenticate, h.mw.Require(domain.CapManageUsers))
	r.Get("/", h.listUsers)
	r.Get("/{id}", h.getUser)
	r.Put("/{id}", h.updateRole)
	r.Delete("/{id}", h.deleteUser)
	return r
}

type userResp struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func toUserResp(u domain.User) userResp {
	return userResp{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.service.TokenTTL().Seconds()),
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Register")
	defer span.End()

	var in application.RegisterInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	u, token, err := h.service.Register(ctx, in)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	h.setTokenCookie(w, token)
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"user": toUserResp(u), "token": token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Login")
	defer span.End()

	var in application.LoginInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	u, token, err := h.service.Login(ctx, in)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	h.setTokenCookie(w, token)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"user": toUserResp(u), "token": token})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	u, err := h.service.Get(r.Context(), id.UserID)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResp(u))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	resp := make([]userResp, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResp(u))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResp(u))
}

type updateRoleReq struct {
	Role domain.Role `json:"role"`
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	u, err := h.service.UpdateRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResp(u))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())
	target := chi.URLParam(r, "id")
	if caller.UserID == target {
		httpx.WriteError(h.log, w, apperror.Conflict("cannot delete own account"))
		return
	}
	if err := h.service.Delete(r.Context(), target); err != nil {
		httpx.WriteError(h.log, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
