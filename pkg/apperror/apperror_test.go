package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus_PerKind(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation(FieldError{Field: "city", Message: "is required"}), http.StatusBadRequest},
		{NotFound("product"), http.StatusNotFound},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("insufficient role"), http.StatusForbidden},
		{Conflict("order already delivered"), http.StatusConflict},
		{Internal(errors.New("pg down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestKindOf_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("checkout: %w", NotFound("product"))
	if got := KindOf(err); got != KindNotFound {
		t.Errorf("KindOf(wrapped) = %v, want KindNotFound", got)
	}
}

func TestInternal_MessageHidesCause(t *testing.T) {
	err := Internal(errors.New("password=secret in dsn"))
	if err.Message != "internal server error" {
		t.Errorf("Message = %q, want the generic message", err.Message)
	}
	if !errors.Is(err, err.Err) {
		t.Error("Unwrap() lost the cause needed for logging")
	}
}
