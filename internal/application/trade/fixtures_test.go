package trade

import (
	"context"
	"testing"

	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/partner"
	"github.com/erp/supplychain/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func seedSupplier(t *testing.T, store *testutil.TestStore) uuid.UUID {
	t.Helper()
	s, err := partner.NewSupplier(partner.Contact{Name: "Acme Metals", Email: "sales@acme.test"}, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, store.Repos.Suppliers().Save(context.Background(), s))
	return s.ID
}

func seedClient(t *testing.T, store *testutil.TestStore) uuid.UUID {
	t.Helper()
	c, err := partner.NewClient(partner.Contact{Name: "Northwind", Email: "buying@northwind.test"}, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, store.Repos.Clients().Save(context.Background(), c))
	return c.ID
}

func seedItem(t *testing.T, store *testutil.TestStore, qty, safetyStock int) uuid.UUID {
	t.Helper()
	item, err := inventory.NewStockItem("Steel bracket", qty, dec("4.00"), safetyStock)
	require.NoError(t, err)
	require.NoError(t, store.Repos.StockItems().Create(context.Background(), item))
	return item.ID
}

func itemQty(t *testing.T, store *testutil.TestStore, itemID uuid.UUID) int {
	t.Helper()
	item, err := store.Repos.StockItems().FindByID(context.Background(), itemID)
	require.NoError(t, err)
	return item.Quantity
}

func supplierBalance(t *testing.T, store *testutil.TestStore, id uuid.UUID) decimal.Decimal {
	t.Helper()
	s, err := store.Repos.Suppliers().FindByID(context.Background(), id)
	require.NoError(t, err)
	return s.Balance
}

func clientBalance(t *testing.T, store *testutil.TestStore, id uuid.UUID) decimal.Decimal {
	t.Helper()
	c, err := store.Repos.Clients().FindByID(context.Background(), id)
	require.NoError(t, err)
	return c.Balance
}
