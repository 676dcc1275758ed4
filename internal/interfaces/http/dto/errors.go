package dto

import (
	"net/http"

	"github.com/erp/supplychain/internal/domain/shared"
)

// Transport-level error codes. Domain codes live in the shared package.
const (
	// ErrCodeBadRequest is used for malformed request bodies and parameters
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeNotFound: http.StatusNotFound,

	// Rejected transitions -> 400 Bad Request
	shared.CodeInvalidState:                http.StatusBadRequest,
	shared.CodeInvalidAction:               http.StatusBadRequest,
	shared.CodeAlreadyFinal:                http.StatusBadRequest,
	shared.CodeFinalAlreadySet:             http.StatusBadRequest,
	shared.CodeAlreadyFinalized:            http.StatusBadRequest,
	shared.CodeDuplicateReceipt:            http.StatusBadRequest,
	shared.CodeDuplicateBill:               http.StatusBadRequest,
	shared.CodeMissingFinalAcknowledgement: http.StatusBadRequest,
	shared.CodeAlreadyPaid:                 http.StatusBadRequest,
	shared.CodeInsufficientInventory:       http.StatusBadRequest,
	shared.CodeOverDelivery:                http.StatusBadRequest,
	shared.CodeNegativeStock:               http.StatusBadRequest,

	// Well-formed input that breaks a rule -> 422
	shared.CodeValidation:   http.StatusUnprocessableEntity,
	shared.CodeInvalidInput: http.StatusUnprocessableEntity,

	shared.CodeConflict: http.StatusConflict,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
