package model

import "errors"

// ErrParcelNotFound is returned when the referenced parcel doesn't exist.
var ErrParcelNotFound = errors.New("parcel not found")

// ErrListingNotFound is returned when the referenced draft listing
// doesn't exist.
var ErrListingNotFound = errors.New("listing not found")

// ValidationError signals missing or malformed caller input,
// not retryable.
type ValidationError struct {
	message string
}

func NewValidationError(message string) ValidationError {
	return ValidationError{message: message}
}

func (e ValidationError) Error() string {
	return e.message
}

// ProviderError signals a failed call to an external collaborator
// (metadata store or ledger), the operation may be retried later.
type ProviderError struct {
	Op  string
	Err error
}

func NewProviderError(op string, err error) ProviderError {
	return ProviderError{Op: op, Err: err}
}

func (e ProviderError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// ConflictError signals a mutation that would move the parcel state
// backwards or repeat a once-only transition.
type ConflictError struct {
	message string
}

func NewConflictError(message string) ConflictError {
	return ConflictError{message: message}
}

func (e ConflictError) Error() string {
	return e.message
}
