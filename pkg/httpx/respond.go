// Package httpx holds the JSON response helpers shared by every handler.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/storefront/pkg/apperror"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Message string                `json:"message"`
	Fields  []apperror.FieldError `json:"fields,omitempty"`
}

// WriteError maps err onto its HTTP status. Unclassified failures are logged
// with their cause and reported with a generic message only.
func WriteError(log *slog.Logger, w http.ResponseWriter, err error) {
	status := apperror.Status(err)
	body := errorBody{Message: "internal server error"}

	var ae *apperror.Error
	if errors.As(err, &ae) && ae.Kind != apperror.KindInternal {
		body.Message = ae.Message
		body.Fields = ae.Fields
	} else {
		log.Error("request failed", "err", err)
	}
	WriteJSON(w, status, body)
}

// Decode reads a JSON request body, reporting a validation failure on
// malformed input.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.New(apperror.KindValidation, "invalid request body")
	}
	return nil
}
