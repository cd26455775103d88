// Package domain defines the core domain models for specvault.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "SV-TXN-4090")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
// Two DomainErrors compare equal when their codes match.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithDetailsf is WithDetails with fmt.Sprintf formatting.
func (e *DomainError) WithDetailsf(format string, args ...any) *DomainError {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Configuration Errors (CONF)
// ============================================================================

var (
	// ErrConfiguration indicates a required spec artifact (the manifest)
	// is missing or unreadable.
	ErrConfiguration = NewDomainError("SV-CONF-4000", "required spec artifact missing or unreadable")
)

// ============================================================================
// Snapshot Errors (SNAP)
// ============================================================================

var (
	// ErrAtomicity indicates a read failed partway through snapshot
	// creation; the partial snapshot is discarded, never persisted.
	ErrAtomicity = NewDomainError("SV-SNAP-5000", "partial read during snapshot creation")

	// ErrSnapshotNotFound indicates a referenced snapshot is absent
	// from the history directory.
	ErrSnapshotNotFound = NewDomainError("SV-SNAP-4040", "snapshot not found")
)

// ============================================================================
// Transaction Errors (TXN / CHG)
// ============================================================================

var (
	// ErrConflict indicates begin was called while a transaction is
	// already active on the project root.
	ErrConflict = NewDomainError("SV-TXN-4090", "a transaction is already active")

	// ErrState indicates commit or rollback was requested while idle,
	// or a rollback-by-id request is inconsistent with persisted state.
	ErrState = NewDomainError("SV-TXN-4001", "no active transaction")

	// ErrChangeNotFound indicates a referenced change record is absent.
	ErrChangeNotFound = NewDomainError("SV-CHG-4040", "change not found")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrStorage indicates a failure in the history directory itself
	// (unwritable, unreadable, malformed record).
	ErrStorage = NewDomainError("SV-SYS-5001", "storage error")

	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = NewDomainError("SV-SYS-5000", "internal error")
)
