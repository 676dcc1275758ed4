package main

import (
	"context"
	"testing"

	inventoryapp "github.com/erp/supplychain/internal/application/inventory"
	partnerapp "github.com/erp/supplychain/internal/application/partner"
	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildServices(t *testing.T) {
	store := testutil.NewTestStore(t)
	publisher := testutil.NewRecordingPublisher()

	services := buildServices(store.Repos, store.Scope, publisher)

	require.NotNil(t, services.StockItems)
	require.NotNil(t, services.Suppliers)
	require.NotNil(t, services.Clients)
	require.NotNil(t, services.Procurement)
	require.NotNil(t, services.Sales)

	ctx := context.Background()
	_, err := services.StockItems.Create(ctx, inventoryapp.CreateStockItemRequest{
		ItemName:    "Hex bolt",
		ItemQty:     10,
		Rate:        decimal.NewFromInt(2),
		SafetyStock: 2,
	})
	require.NoError(t, err)
	assert.Len(t, publisher.OfType(inventory.EventTypeStockItemCreated), 1)

	_, err = services.Suppliers.Create(ctx, partnerapp.CreateSupplierRequest{Name: "Acme"})
	require.NoError(t, err)
	assert.Len(t, publisher.Types(), 1, "partner CRUD publishes nothing")
}
