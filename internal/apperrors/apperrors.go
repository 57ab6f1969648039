// Package apperrors defines the engine's error taxonomy. Every failure a
// caller can observe carries a Kind (the retry/render class) and a stable
// Code, so the API layer never has to inspect free text.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindConflict           Kind = "conflict"
	KindNotFound           Kind = "not_found"
	KindInvalidTransition  Kind = "invalid_transition"
	KindForbidden          Kind = "forbidden"
	KindStorageUnavailable Kind = "storage_unavailable"
)

// Stable error codes surfaced to callers.
const (
	CodeDuplicateRegistration   = "DUPLICATE_REGISTRATION"
	CodeEventNotFound           = "EVENT_NOT_FOUND"
	CodeDeadlinePassed          = "DEADLINE_PASSED"
	CodeTeamMembershipRequired  = "TEAM_MEMBERSHIP_REQUIRED"
	CodeAmbiguousTarget         = "AMBIGUOUS_TARGET"
	CodeAlreadyProcessed        = "ALREADY_PROCESSED"
	CodeTeamFull                = "TEAM_FULL"
	CodeNameTaken               = "NAME_TAKEN"
	CodeDuplicateMember         = "DUPLICATE_MEMBER"
	CodeInvalidTransition       = "INVALID_TRANSITION"
	CodeConflict                = "CONFLICT"
	CodeNotFound                = "NOT_FOUND"
	CodeForbidden               = "FORBIDDEN"
	CodeInvalidAmount           = "INVALID_AMOUNT"
	CodeInvalidDateRange        = "INVALID_DATE_RANGE"
	CodeMissingField            = "MISSING_FIELD"
	CodePaymentRequired         = "PAYMENT_REQUIRED"
	CodeStorageUnavailable      = "STORAGE_UNAVAILABLE"
)

// Error is the engine's error value.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a taxonomy error.
func E(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches an underlying cause to a taxonomy error.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// Storage wraps a storage-layer failure. This is the only kind the caller
// may retry; the engine itself never does, to avoid masking a
// double-applied side effect.
func Storage(err error) *Error {
	return &Error{
		Kind:    KindStorageUnavailable,
		Code:    CodeStorageUnavailable,
		Message: "storage operation failed",
		Err:     err,
	}
}

// KindOf extracts the Kind of err, or KindStorageUnavailable for errors
// that did not come from the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorageUnavailable
}

// CodeOf extracts the stable code of err, or STORAGE_UNAVAILABLE.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStorageUnavailable
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
