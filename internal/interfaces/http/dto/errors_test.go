package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeInvalidState, http.StatusBadRequest},
		{shared.CodeAlreadyFinal, http.StatusBadRequest},
		{shared.CodeFinalAlreadySet, http.StatusBadRequest},
		{shared.CodeInvalidAction, http.StatusBadRequest},
		{shared.CodeAlreadyFinalized, http.StatusBadRequest},
		{shared.CodeDuplicateReceipt, http.StatusBadRequest},
		{shared.CodeDuplicateBill, http.StatusBadRequest},
		{shared.CodeMissingFinalAcknowledgement, http.StatusBadRequest},
		{shared.CodeAlreadyPaid, http.StatusBadRequest},
		{shared.CodeInsufficientInventory, http.StatusBadRequest},
		{shared.CodeOverDelivery, http.StatusBadRequest},
		{shared.CodeNegativeStock, http.StatusBadRequest},
		{shared.CodeValidation, http.StatusUnprocessableEntity},
		{shared.CodeInvalidInput, http.StatusUnprocessableEntity},
		{shared.CodeConflict, http.StatusConflict},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		pages    int
	}{
		{0, 20, 0},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta([]int{}, tt.total, 1, tt.pageSize)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, tt.pages, resp.Meta.TotalPages, "total=%d size=%d", tt.total, tt.pageSize)
	}
}

func TestErrorResponseJSON(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponseWithRequestID(shared.CodeDuplicateBill, "Bill already exists", "req-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {"code": "DUPLICATE_BILL", "message": "Bill already exists", "request_id": "req-1"}
	}`, string(raw))

	raw, err = json.Marshal(NewValidationErrorResponse("Request validation failed", "", []ValidationDetail{
		{Field: "qty_ordered", Message: "Must be greater than 0"},
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "VALIDATION_ERROR",
			"message": "Request validation failed",
			"details": [{"field": "qty_ordered", "message": "Must be greater than 0"}]
		}
	}`, string(raw))
}
