package shared

import "errors"

// Error codes for the ledger error taxonomy. Business-rule violations are
// always reported with one of these codes; anything else coming back from a
// repository is an unexpected failure and aborts the enclosing transaction.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidState        = "INVALID_STATE"
	CodeAllocationOverflow  = "ALLOCATION_OVERFLOW"
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports malformed input, rejected before any state change.
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewInvalidStateError reports an operation attempted from a disallowed
// lifecycle state.
func NewInvalidStateError(message string) *DomainError {
	return NewDomainError(CodeInvalidState, message)
}

// NewAllocationOverflowError reports allocations exceeding a payment
// document's declared total.
func NewAllocationOverflowError(message string) *DomainError {
	return NewDomainError(CodeAllocationOverflow, message)
}

// NewNotFoundError reports a missing or foreign referenced entity.
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewConcurrencyConflictError reports an optimistic-lock failure; the
// aggregate was modified between load and save.
func NewConcurrencyConflictError(message string) *DomainError {
	return NewDomainError(CodeConcurrencyConflict, message)
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)

// HasCode reports whether err is a DomainError carrying the given code.
func HasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return HasCode(err, CodeValidation) }

// IsInvalidState reports whether err is an invalid-state error.
func IsInvalidState(err error) bool { return HasCode(err, CodeInvalidState) }

// IsAllocationOverflow reports whether err is an allocation-overflow error.
func IsAllocationOverflow(err error) bool { return HasCode(err, CodeAllocationOverflow) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsConcurrencyConflict reports whether err is an optimistic-lock failure.
func IsConcurrencyConflict(err error) bool { return HasCode(err, CodeConcurrencyConflict) }

// IsDomainError reports whether err is any recoverable business-rule error,
// as opposed to an unexpected infrastructure failure.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
