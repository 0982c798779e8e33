package validate

import (
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/subtrackhq/subtrack-go/pkg/errors"
)

type sampleForm struct {
	Title string          `json:"title" validate:"required,min=2"`
	Level int             `json:"level" validate:"required,gt=0"`
	Cycle string          `json:"billingCycle" validate:"required,period"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
}

func TestCollectAccumulatesAllFieldErrors(t *testing.T) {
	errs := Collect(sampleForm{Title: "x", Level: -1, Cycle: "biweekly"})

	if errs.Empty() {
		t.Fatalf("expected errors")
	}
	if len(errs.Messages("title")) != 1 {
		t.Fatalf("expected title error, got %v", errs)
	}
	if len(errs.Messages("level")) != 1 {
		t.Fatalf("expected level error, got %v", errs)
	}
	if got := errs.Messages("billingCycle"); len(got) != 1 || got[0] != "must be a known billing period" {
		t.Fatalf("expected billingCycle error, got %v", got)
	}
}

func TestCollectPassesValidValue(t *testing.T) {
	errs := Collect(sampleForm{Title: "Personal", Level: 1, Cycle: "monthly", Price: decimal.NewFromInt(10)})
	if !errs.Empty() {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCollectDecimalRange(t *testing.T) {
	errs := Collect(sampleForm{Title: "Personal", Level: 1, Cycle: "monthly", Price: decimal.NewFromInt(-5)})
	if len(errs.Messages("price")) != 1 {
		t.Fatalf("expected price error, got %v", errs)
	}
}

func TestStructWrapsFieldErrors(t *testing.T) {
	err := Struct(sampleForm{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Details() == nil {
		t.Fatalf("expected per-field details")
	}
}

func TestStrictDecodeRejectsUnknownKeys(t *testing.T) {
	var dest sampleForm
	err := StrictDecode([]byte(`{"title":"Personal","level":1,"billingCycle":"monthly","price":0,"bonus":true}`), &dest)
	if !pkgerrors.HasCode(err, pkgerrors.CodeContract) {
		t.Fatalf("expected contract error for unknown key, got %v", err)
	}
}

func TestStrictDecodeRejectsConstraintViolations(t *testing.T) {
	var dest sampleForm
	err := StrictDecode([]byte(`{"title":"Personal","level":0,"billingCycle":"monthly","price":0}`), &dest)
	if !pkgerrors.HasCode(err, pkgerrors.CodeContract) {
		t.Fatalf("expected contract error for level=0, got %v", err)
	}
}

func TestStrictDecodeAcceptsValidPayload(t *testing.T) {
	var dest sampleForm
	err := StrictDecode([]byte(`{"title":"Personal","level":3,"billingCycle":"annual","price":12.5}`), &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Level != 3 || dest.Cycle != "annual" {
		t.Fatalf("unexpected decode result: %+v", dest)
	}
}

type crossField struct {
	NewPassword    string `json:"newPassword" validate:"required,min=6"`
	RepeatPassword string `json:"repeatPassword" validate:"required,eqfield=NewPassword"`
}

func TestCrossFieldErrorAttachesToRepeatField(t *testing.T) {
	errs := Collect(crossField{NewPassword: "abc123", RepeatPassword: "xyz999"})
	if len(errs.Messages("repeatPassword")) != 1 {
		t.Fatalf("expected repeatPassword error, got %v", errs)
	}
	if len(errs.Messages("newPassword")) != 0 {
		t.Fatalf("newPassword should carry no error, got %v", errs)
	}

	errs = Collect(crossField{NewPassword: "abc123", RepeatPassword: "abc123"})
	if !errs.Empty() {
		t.Fatalf("expected matching passwords to validate, got %v", errs)
	}
}
