package apiclient

import (
	"encoding/json"
	"fmt"

	"go.uber.org/multierr"

	pkgerrors "github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// Entity decodes a single wire document into T, enforcing the schema
// contract: unknown keys and constraint violations are contract errors.
func Entity[T any](data []byte) (*T, error) {
	camel, err := DecodeWire(data)
	if err != nil {
		return nil, err
	}
	var out T
	if err := validate.StrictDecode(camel, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List decodes a wire array into []T, validating every element and combining
// the failures so a single bad row does not mask the rest.
func List[T any](data []byte) ([]T, error) {
	camel, err := DecodeWire(data)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(camel, &raw); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeContract, err, "response is not a list")
	}

	out := make([]T, 0, len(raw))
	var errs error
	for i, item := range raw {
		var decoded T
		if err := validate.StrictDecode(item, &decoded); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("element %d: %w", i, err))
			continue
		}
		out = append(out, decoded)
	}
	if errs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeContract, errs, "list element schema mismatch")
	}
	return out, nil
}

// RawList splits a wire array into its raw elements without decoding them,
// for endpoints whose array mixes shapes.
func RawList(data []byte) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeContract, err, "response is not a list")
	}
	return raw, nil
}

// Scalar decodes a bare JSON scalar response, such as the id string returned
// by the mutating endpoints.
func Scalar[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeContract, err, "decode scalar response")
	}
	return out, nil
}
