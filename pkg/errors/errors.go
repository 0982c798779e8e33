package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation     Code = "VALIDATION_ERROR"
	CodeUnauthorized   Code = "UNAUTHORIZED"
	CodeForbidden      Code = "FORBIDDEN"
	CodeNotFound       Code = "NOT_FOUND"
	CodeContract       Code = "CONTRACT_ERROR"
	CodeNotImplemented Code = "NOT_IMPLEMENTED"
	CodeDependency     Code = "DEPENDENCY_ERROR"
	CodeInternal       Code = "INTERNAL_ERROR"
)

type Metadata struct {
	Transient     bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Transient:     false,
		PublicMessage: "validation failed",
	},
	CodeUnauthorized: {
		Transient:     false,
		PublicMessage: "authentication required",
	},
	CodeForbidden: {
		Transient:     false,
		PublicMessage: "access denied",
	},
	CodeNotFound: {
		Transient:     false,
		PublicMessage: "resource not found",
	},
	CodeContract: {
		Transient:     false,
		PublicMessage: "unexpected response shape",
	},
	CodeNotImplemented: {
		Transient:     false,
		PublicMessage: "operation not implemented",
	},
	CodeDependency: {
		Transient:     true,
		PublicMessage: "dependency unavailable",
	},
	CodeInternal: {
		Transient:     false,
		PublicMessage: "internal error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

// IsAuthFailure reports whether err represents a rejected credential or session.
func IsAuthFailure(err error) bool {
	return HasCode(err, CodeUnauthorized) || HasCode(err, CodeForbidden)
}

// FromStatus maps an HTTP response status to the client error taxonomy.
// Statuses below 400 carry no error code and return false.
func FromStatus(status int) (Code, bool) {
	switch {
	case status < http.StatusBadRequest:
		return "", false
	case status == http.StatusUnauthorized:
		return CodeUnauthorized, true
	case status == http.StatusForbidden:
		return CodeForbidden, true
	case status == http.StatusNotFound:
		return CodeNotFound, true
	case status == http.StatusNotImplemented:
		return CodeNotImplemented, true
	case status >= http.StatusInternalServerError:
		return CodeDependency, true
	default:
		return CodeValidation, true
	}
}
