// Package booking implements the booking lifecycle: creation with derived
// pricing and a unique reference, ownership-scoped listing, and terminal
// cancellation.  Persistence and catalog lookups happen behind the Store
// and Catalog interfaces so the service holds no state of its own.
package booking

import "errors"

// Sentinel errors returned by the service.  Handlers map them to HTTP
// statuses with errors.Is; call sites wrap them with context via fmt.Errorf
// and %w so the message survives.
var (
	// ErrValidation covers bad input shape or range (400).
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers absent or unbookable listings and absent bookings (404).
	ErrNotFound = errors.New("not found")
	// ErrForbidden covers authenticated but unauthorized access (403).
	ErrForbidden = errors.New("forbidden")
	// ErrConflict covers terminal-state violations such as cancelling an
	// already-cancelled booking (409).
	ErrConflict = errors.New("conflict")
	// ErrDuplicateReference must be returned by Store.Create when the
	// unique index rejects a booking reference.  The service retries with
	// a fresh code; it never surfaces to callers directly.
	ErrDuplicateReference = errors.New("duplicate booking reference")
)
