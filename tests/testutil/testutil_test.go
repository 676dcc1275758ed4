package testutil

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/erp/supplychain/internal/application/txscope"
	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestStore_Isolated(t *testing.T) {
	ctx := context.Background()
	first := NewTestStore(t)
	second := NewTestStore(t)

	item, err := inventory.NewStockItem("Bolt", 5, decimal.NewFromInt(2), 1)
	require.NoError(t, err)
	require.NoError(t, first.Repos.StockItems().Create(ctx, item))

	n, err := second.Repos.StockItems().Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, n)

	rollback := errors.New("rollback")
	err = first.Scope.Execute(ctx, func(repos txscope.Repositories) error {
		_, err := repos.Ledger().Receive(ctx, item.ID, 10, inventory.Reference{})
		require.NoError(t, err)
		return rollback
	})
	assert.ErrorIs(t, err, rollback)

	reloaded, err := first.Repos.StockItems().FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Quantity)
}

func TestRecordingPublisher(t *testing.T) {
	p := NewRecordingPublisher()
	require.NoError(t, p.Publish(context.Background(), NewTestEvent("A"), NewTestEvent("B"), NewTestEvent("A")))

	assert.Equal(t, []string{"A", "B", "A"}, p.Types())
	assert.Len(t, p.OfType("A"), 2)

	p.Reset()
	assert.Empty(t, p.Types())
}

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)
	tc.SetRequestID("req-9")

	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
	assert.Equal(t, "req-9", tc.Context.GetString("request_id"))

	tc = NewTestContextWithRequest(t, http.MethodDelete, "/suppliers/1", nil)
	assert.Equal(t, "/suppliers/1", tc.Context.Request.URL.Path)
}

func TestDoJSON(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{"code": "BAD_REQUEST", "message": err.Error()}})
			return
		}
		body["key"] = c.GetHeader("Idempotency-Key")
		c.JSON(http.StatusOK, gin.H{"success": true, "data": body})
	})

	w := DoJSON(t, engine, http.MethodPost, "/echo", map[string]any{"qty": 3}, "Idempotency-Key", "k1")
	data := DataAs[map[string]any](t, w)
	assert.Equal(t, float64(3), data["qty"])
	assert.Equal(t, "k1", data["key"])

	w = DoJSON(t, engine, http.MethodPost, "/echo", "{not json")
	AssertErrorCode(t, w, http.StatusBadRequest, "BAD_REQUEST")
}
