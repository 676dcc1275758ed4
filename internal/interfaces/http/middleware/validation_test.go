package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priceRequest struct {
	Price    decimal.Decimal  `json:"price" binding:"decimal_gt0"`
	Discount *decimal.Decimal `json:"discount" binding:"omitempty,decimal_gte0"`
	Action   string           `json:"action" binding:"required,oneof_fold=accepted rejected revised"`
	Qty      int              `form:"qty" binding:"gt=0"`
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()
	SetupValidator()

	neg := decimal.NewFromInt(-1)
	zero := decimal.Zero

	tests := []struct {
		name   string
		req    priceRequest
		fields []string
	}{
		{"valid", priceRequest{Price: decimal.RequireFromString("9.99"), Action: "accepted", Qty: 1}, nil},
		{"action ignores case", priceRequest{Price: decimal.NewFromInt(1), Action: " Revised ", Qty: 1}, nil},
		{"zero discount allowed", priceRequest{Price: decimal.NewFromInt(1), Discount: &zero, Action: "rejected", Qty: 1}, nil},
		{"zero price", priceRequest{Action: "accepted", Qty: 1}, []string{"price"}},
		{"negative discount", priceRequest{Price: decimal.NewFromInt(1), Discount: &neg, Action: "accepted", Qty: 1}, []string{"discount"}},
		{"unknown action", priceRequest{Price: decimal.NewFromInt(1), Action: "maybe", Qty: 1}, []string{"action"}},
		{"form tag names", priceRequest{Price: decimal.NewFromInt(1), Action: "accepted"}, []string{"qty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.req)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			details := ValidationDetails(err)
			var got []string
			for _, d := range details {
				got = append(got, d.Field)
				assert.NotEmpty(t, d.Message)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestValidationDetails_NonValidatorError(t *testing.T) {
	assert.Nil(t, ValidationDetails(assert.AnError))
}

func TestValidationMessage(t *testing.T) {
	SetupValidator()
	err := binding.Validator.ValidateStruct(&priceRequest{Price: decimal.NewFromInt(1), Action: "nope", Qty: 1})
	details := ValidationDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "Must be one of: accepted rejected revised", details[0].Message)
}
