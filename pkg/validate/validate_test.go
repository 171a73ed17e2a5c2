package validate

import (
	"errors"
	"testing"

	"github.com/example/storefront/pkg/apperror"
)

type shippingForm struct {
	Address string `validate:"required"`
	City    string `validate:"required"`
	Phone   string `validate:"required"`
}

func TestStruct_ReportsEveryEmptyField(t *testing.T) {
	err := Struct(shippingForm{Address: "1 Main St"})
	if err == nil {
		t.Fatal("Struct() = nil for a form with empty fields")
	}

	var ae *apperror.Error
	if !errors.As(err, &ae) {
		t.Fatalf("Struct() error type = %T, want *apperror.Error", err)
	}
	if ae.Kind != apperror.KindValidation {
		t.Errorf("Kind = %v, want KindValidation", ae.Kind)
	}
	if len(ae.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2: %+v", len(ae.Fields), ae.Fields)
	}

	got := map[string]bool{}
	for _, f := range ae.Fields {
		got[f.Field] = true
	}
	if !got["city"] || !got["phone"] {
		t.Errorf("Fields = %+v, want city and phone flagged", ae.Fields)
	}
}

func TestStruct_ValidInputPasses(t *testing.T) {
	err := Struct(shippingForm{Address: "1 Main St", City: "Springfield", Phone: "555-0100"})
	if err != nil {
		t.Errorf("Struct() error = %v, want nil", err)
	}
}

type ratingForm struct {
	Rating int `validate:"gte=1,lte=5"`
}

func TestStruct_RangeMessages(t *testing.T) {
	err := Struct(ratingForm{Rating: 9})
	var ae *apperror.Error
	if !errors.As(err, &ae) || len(ae.Fields) != 1 {
		t.Fatalf("Struct() = %v, want one field error", err)
	}
	if ae.Fields[0].Message != "must be 5 or less" {
		t.Errorf("Message = %q, want %q", ae.Fields[0].Message, "must be 5 or less")
	}
}
