package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes ordering errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a referenced anchor or item is absent.
	// Propagated to the caller, never retried.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeConflict indicates the store rejected a key as a duplicate even
	// after the retry budget. Implies a race with a concurrent mutation.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeCeilingExceeded flags a key whose integers crossed the ceiling.
	// Inside the engine this triggers renormalization automatically; the
	// code surfaces only through Audit on collections written by older or
	// misconfigured processes.
	ErrCodeCeilingExceeded ErrorCode = "CEILING_EXCEEDED"

	// ErrCodeInvariantViolation indicates arithmetic overflow or a malformed
	// key before the ceiling check. Unreachable under a correctly configured
	// ceiling; fatal, never retried.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"

	// ErrCodeConfig indicates an operational limit was exhausted in a way
	// only configuration can cause (e.g. the descent budget was smaller than
	// the ceiling allows descents to be).
	ErrCodeConfig ErrorCode = "CONFIG"

	// ErrCodeInvalidArgument indicates a malformed request (empty item ID,
	// missing collection).
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// OrderError is the engine's error type. It carries the error category plus
// the collection and item it concerns, for diagnostics and recovery.
type OrderError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Collection identifies the affected collection.
	Collection string

	// ItemID identifies the affected item, when one is involved.
	ItemID string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *OrderError) Error() string {
	switch {
	case e.Collection != "" && e.ItemID != "":
		return fmt.Sprintf("%s: %s (collection=%s, item=%s)", e.Code, e.Message, e.Collection, e.ItemID)
	case e.Collection != "":
		return fmt.Sprintf("%s: %s (collection=%s)", e.Code, e.Message, e.Collection)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *OrderError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NOT_FOUND ordering error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsConflict reports whether err is a CONFLICT ordering error.
func IsConflict(err error) bool {
	return hasCode(err, ErrCodeConflict)
}

// IsInvariantViolation reports whether err is an INVARIANT_VIOLATION
// ordering error.
func IsInvariantViolation(err error) bool {
	return hasCode(err, ErrCodeInvariantViolation)
}

func hasCode(err error, code ErrorCode) bool {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe.Code == code
	}
	return false
}

func newNotFoundError(collection, itemID string, err error) *OrderError {
	return &OrderError{
		Code:       ErrCodeNotFound,
		Message:    "item has no key in collection",
		Collection: collection,
		ItemID:     itemID,
		Err:        err,
	}
}

func newConflictError(collection, itemID string, attempts int, err error) *OrderError {
	return &OrderError{
		Code:       ErrCodeConflict,
		Message:    fmt.Sprintf("key conflict persisted after %d attempts", attempts),
		Collection: collection,
		ItemID:     itemID,
		Err:        err,
	}
}

func newInvariantError(collection, itemID, message string, err error) *OrderError {
	return &OrderError{
		Code:       ErrCodeInvariantViolation,
		Message:    message,
		Collection: collection,
		ItemID:     itemID,
		Err:        err,
	}
}
