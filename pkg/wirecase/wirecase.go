// Package wirecase converts between the API's snake_case wire shape and the
// camelCase domain shape. The transform walks a closed set of kinds: scalars,
// times, sequences, and string-keyed mappings. Anything else is a contract
// violation and fails with ErrUnsupportedKind.
package wirecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// ErrUnsupportedKind marks values that cannot appear in a wire payload.
var ErrUnsupportedKind = errors.New("unsupported kind")

// KeyFunc rewrites a single mapping key.
type KeyFunc func(string) string

// ToWire rewrites every mapping key from camelCase to snake_case, recursively.
func ToWire(value any) (any, error) {
	return Transform(value, SnakeCase)
}

// FromWire rewrites every mapping key from snake_case to camelCase, recursively.
func FromWire(value any) (any, error) {
	return Transform(value, CamelCase)
}

// Clone deep-copies a wire-compatible value without touching keys.
func Clone(value any) (any, error) {
	return Transform(value, func(key string) string { return key })
}

// Transform produces a structurally identical value with every mapping key
// rewritten by keyFn. Scalars pass through unchanged, times are cloned.
func Transform(value any, keyFn KeyFunc) (any, error) {
	if value == nil {
		return nil, nil
	}
	if t, ok := value.(time.Time); ok {
		return t, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return value, nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return Transform(rv.Elem().Interface(), keyFn)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := Transform(rv.Index(i).Interface(), keyFn)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map keyed by %s", ErrUnsupportedKind, rv.Type().Key())
		}
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			item, err := Transform(iter.Value().Interface(), keyFn)
			if err != nil {
				return nil, err
			}
			out[keyFn(iter.Key().String())] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKind, value)
	}
}

// SnakeCase inserts an underscore before each uppercase letter and lowers it.
func SnakeCase(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelCase removes underscores and hyphens, uppercasing the letter that
// follows each separator.
func CamelCase(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	upNext := false
	for _, r := range key {
		if r == '_' || r == '-' {
			upNext = true
			continue
		}
		if upNext {
			b.WriteRune(unicode.ToUpper(r))
			upNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
