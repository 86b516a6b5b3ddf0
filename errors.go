package fungible

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
var (
	// Domain errors
	ErrInsufficientBalance   = errors.New("fungible: insufficient balance")
	ErrInsufficientAllowance = errors.New("fungible: insufficient allowance")

	// Input errors
	ErrInvalidInput   = errors.New("fungible: invalid input")
	ErrInvalidAmount  = errors.New("fungible: invalid amount")
	ErrInvalidAddress = errors.New("fungible: invalid address")

	// Token errors
	ErrTokenNotFound = errors.New("fungible: token not found")
	ErrTokenMismatch = errors.New("fungible: stored token does not match configuration")

	// Journal errors
	ErrDuplicateEntry = errors.New("fungible: journal entry already exists")
	ErrJournalCorrupt = errors.New("fungible: journal is corrupt")

	// Store errors
	ErrStoreNotReady   = errors.New("fungible: store not ready")
	ErrStoreClosed     = errors.New("fungible: store is closed")
	ErrMigrationFailed = errors.New("fungible: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("fungible: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e ValidationError) Unwrap() error { return ErrInvalidInput }

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "fungible: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("fungible: %d errors occurred: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e MultiError) Unwrap() []error { return e.Errors }

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// ErrorOrNil returns the multi-error itself when it holds errors, nil otherwise.
func (e MultiError) ErrorOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// IsInsufficientFunds returns true if the operation failed on a balance or
// allowance check.
func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInsufficientAllowance)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTokenNotFound)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrDuplicateEntry)
}
