package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/storefront/internal/account/auth"
	"github.com/example/storefront/internal/account/domain"
	"github.com/example/storefront/pkg/apperror"
	"github.com/example/storefront/pkg/httpx"
)

// CookieName is where login and register drop the session token.
const CookieName = "token"

// Identity is the resolved caller attached to the request context. The role
// is expanded into a capability set once, here, so handlers never branch on
// role strings.
type Identity struct {
	UserID string
	Name   string
	Role   domain.Role
	caps   map[domain.Capability]bool
}

func (id Identity) Can(c domain.Capability) bool { return id.caps[c] }

type ctxKey struct{}

// IdentityFrom returns the authenticated caller, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Middleware authenticates requests and gates routes on capabilities.
type Middleware struct {
	log    *slog.Logger
	tokens *auth.Manager
}

func NewMiddleware(log *slog.Logger, tokens *auth.Manager) *Middleware {
	return &Middleware{log: log, tokens: tokens}
}

// Authenticate requires a valid token, from the cookie or a bearer header,
// and attaches the caller's identity to the context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" {
			if c, err := r.Cookie(CookieName); err == nil {
				tokenStr = c.Value
			}
		}
		if tokenStr == "" {
			httpx.WriteError(m.log, w, apperror.Unauthorized("authentication required"))
			return
		}

		claims, err := m.tokens.Verify(tokenStr)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token has expired"
			}
			httpx.WriteError(m.log, w, apperror.Unauthorized(msg))
			return
		}

		id := Identity{
			UserID: claims.UserID,
			Name:   claims.Name,
			Role:   claims.Role,
			caps:   domain.Capabilities(claims.Role),
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// Require gates a route on a capability. It must sit inside Authenticate.
func (m *Middleware) Require(c domain.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				httpx.WriteError(m.log, w, apperror.Unauthorized("authentication required"))
				return
			}
			if !id.Can(c) {
				httpx.WriteError(m.log, w, apperror.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
