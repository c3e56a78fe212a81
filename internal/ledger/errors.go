package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies ledger failures so callers can react without parsing messages.
type Kind string

const (
	KindInvalidInput       Kind = "InvalidInput"
	KindIdentityConflict   Kind = "IdentityConflict"
	KindStorageUnavailable Kind = "StorageUnavailable"
	KindPartialDeletion    Kind = "PartialDeletion"
	KindNotFound           Kind = "NotFound"
)

// Error is the structured error returned by the engine, reconciler and analytics.
type Error struct {
	Kind      Kind
	Field     string
	Row       int
	ProductID string
	Message   string
	Err       error
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrIdentityConflict   = &Error{Kind: KindIdentityConflict}
	ErrStorageUnavailable = &Error{Kind: KindStorageUnavailable}
	ErrPartialDeletion    = &Error{Kind: KindPartialDeletion}
	ErrNotFound           = &Error{Kind: KindNotFound}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.ProductID != "" {
		fmt.Fprintf(&b, " product %q", e.ProductID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %s", e.Field)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of a ledger error, or "" for anything else.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

func invalid(field, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: msg}
}
