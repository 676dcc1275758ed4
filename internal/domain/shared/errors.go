package shared

import "errors"

// Error codes shared by every bounded context. Handlers map them to HTTP
// statuses, so a code must never change meaning once published.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeValidation       = "VALIDATION_ERROR"
	CodeConflict         = "CONFLICT"
	CodeInvalidState     = "INVALID_STATE"
	CodeAlreadyFinal     = "ALREADY_FINAL"
	CodeFinalAlreadySet  = "FINAL_ALREADY_SET"
	CodeAlreadyFinalized = "ALREADY_FINALIZED"
	CodeInvalidAction    = "INVALID_ACTION"

	CodeDuplicateReceipt            = "DUPLICATE_RECEIPT"
	CodeDuplicateBill               = "DUPLICATE_BILL"
	CodeMissingFinalAcknowledgement = "MISSING_FINAL_ACKNOWLEDGEMENT"
	CodeAlreadyPaid                 = "ALREADY_PAID"

	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeOverDelivery          = "OVER_DELIVERY"
	CodeNegativeStock         = "NEGATIVE_STOCK"
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

// Is reports whether target carries the same code, so a sentinel like
// ErrNotFound matches any not-found error regardless of its message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a not-found error naming the missing entity
func NewNotFoundError(entity string) *DomainError {
	return NewDomainError(CodeNotFound, entity+" not found")
}

// CodeOf returns the domain code carried by err, or "" for non-domain errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Common domain errors
var (
	ErrNotFound     = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidState = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrConflict     = NewDomainError(CodeConflict, "Resource conflicts with existing state")
)
