// Package validate wraps go-playground/validator with the field naming and
// error shaping conventions used across the SDK. Two entry points exist:
// Collect accumulates every field error for form input, and StrictDecode
// checks API responses against their expected schema, where any mismatch is
// a contract error rather than user input to correct.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/subtrackhq/subtrack-go/pkg/enums"
	pkgerrors "github.com/subtrackhq/subtrack-go/pkg/errors"
)

var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "period", func(fl validator.FieldLevel) bool {
		return enums.Period(fl.Field().String()).IsValid()
	})
	mustRegister(v, "currencycode", func(fl validator.FieldLevel) bool {
		return enums.Currency(fl.Field().String()).IsValid()
	})
	mustRegister(v, "eventcode", func(fl validator.FieldLevel) bool {
		return enums.EventCode(fl.Field().String()).IsValid()
	})
	mustRegister(v, "substatus", func(fl validator.FieldLevel) bool {
		return enums.SubscriptionStatus(fl.Field().String()).IsValid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// RegisterStructValidation installs a struct-level rule for the given types.
func RegisterStructValidation(fn validator.StructLevelFunc, types ...any) {
	engine.RegisterStructValidation(fn, types...)
}

// FieldErrors maps a field path to its accumulated messages.
type FieldErrors map[string][]string

// Add appends a message for a field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Empty reports whether no field has an error.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Messages returns the messages for a field, or nil.
func (f FieldErrors) Messages(field string) []string {
	return f[field]
}

// Collect validates v and accumulates every field error instead of stopping
// at the first. The returned map is keyed by json field name.
func Collect(v any) FieldErrors {
	out := FieldErrors{}
	err := engine.Struct(v)
	if err == nil {
		return out
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		out.Add("", err.Error())
		return out
	}
	for _, fieldErr := range errs {
		out.Add(fieldName(fieldErr), Message(fieldErr))
	}
	return out
}

// Struct validates v and converts the failure into a single validation error
// with per-field details.
func Struct(v any) error {
	errs := Collect(v)
	if errs.Empty() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(errs)
}

// StrictDecode unmarshals data into dest, rejecting unknown keys, then
// validates the result. Any failure is a contract error: the response did not
// match the schema this client was built against.
func StrictDecode(data []byte, dest any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeContract, err, "response decode failed")
	}
	if err := engine.Struct(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeContract, err, "response schema mismatch").WithDetails(Collect(dest))
	}
	return nil
}

// Message renders a short human-readable message for a single field error.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid url"
	case "uuid4", "uuid":
		return "must be an uuid string"
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	case "period":
		return "must be a known billing period"
	case "currencycode":
		return "must be a supported currency"
	case "eventcode":
		return "must be a known event code"
	case "substatus":
		return "must be a known subscription status"
	case "required_if_paused":
		return "is required while paused"
	case "excluded_unless_paused":
		return "is only allowed while paused"
	}
	return "is invalid"
}

func fieldName(fe validator.FieldError) string {
	// Namespace is Type.nested.field; drop the type segment so errors key by
	// the json path relative to the validated value.
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}
