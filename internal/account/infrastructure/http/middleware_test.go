package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/storefront/internal/account/auth"
	"github.com/example/storefront/internal/account/domain"
	"github.com/example/storefront/pkg/logging"
)

func testMiddleware() (*Middleware, *auth.Manager) {
	tokens := auth.NewManager("test-secret", time.Hour)
	return NewMiddleware(logging.New(), tokens), tokens
}

func okHandler(t *testing.T, wantUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			t.Error("IdentityFrom() not set inside authenticated handler")
		}
		if wantUser != "" && id.UserID != wantUser {
			t.Errorf("UserID = %q, want %q", id.UserID, wantUser)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_MissingTokenIs401(t *testing.T) {
	mw, _ := testMiddleware()
	h := mw.Authenticate(okHandler(t, ""))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	mw, tokens := testMiddleware()
	token, err := tokens.Generate("u1", "alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	h := mw.Authenticate(okHandler(t, "u1"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthenticate_Cookie(t *testing.T) {
	mw, tokens := testMiddleware()
	token, err := tokens.Generate("u2", "bob", domain.RoleUser)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	h := mw.Authenticate(okHandler(t, "u2"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthenticate_InvalidTokenIs401(t *testing.T) {
	mw, _ := testMiddleware()
	h := mw.Authenticate(okHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequire_RoleGate(t *testing.T) {
	mw, tokens := testMiddleware()

	gate := mw.Authenticate(mw.Require(domain.CapManageUsers)(okHandler(t, "")))

	tests := []struct {
		role domain.Role
		want int
	}{
		{domain.RoleUser, http.StatusForbidden},
		{domain.RoleSeller, http.StatusForbidden},
		{domain.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		token, err := tokens.Generate("u1", "alice", tt.role)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("role %s: status = %d, want %d", tt.role, rec.Code, tt.want)
		}
	}
}
