package services

import (
	"errors"
	"fmt"
)

// Kind classifies domain failures. Handlers map kinds to HTTP statuses.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindRendering
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRendering:
		return "rendering"
	}
	return "unknown"
}

// Error is the typed failure returned by every service operation.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Fields carries per-field violation codes for validation failures.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind, so errors.Is(err, ErrNotFound) works for any not found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrRendering  = &Error{Kind: KindRendering}
)

// Error codes.
const (
	CodeInvoices       = "Invoices.Validation"
	CodeInvoiceVersion = "Invoices.VersionMismatch"
	CodeInvoiceTotals  = "Invoices.InconsistentTotals"
	CodeInvoiceRender  = "Invoices.Rendering"
	CodeCustomers      = "Customers.Validation"
	CodeCustomersInUse = "Customers.InUse"
	CodeSenders        = "Senders.Validation"
	CodeSendersInUse   = "Senders.InUse"
)

func NotFound(code, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Conflict(code, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(code, message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, Fields: fields}
}

func Rendering(code, message string, err error) *Error {
	return &Error{Kind: KindRendering, Code: code, Message: message, Err: err}
}

// KindOf returns the kind of a service error, or 0 for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
