package partner

import (
	"context"
	"testing"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/domain/trade"
	"github.com/erp/supplychain/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientService_Lifecycle(t *testing.T) {
	store := testutil.NewTestStore(t)
	svc := NewClientService(store.Repos, store.Scope)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateClientRequest{
		Name:            "Northwind",
		Contact:         "555-0199",
		Email:           "buyer@northwind.test",
		DiscountOffered: decimal.RequireFromString("2.5"),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateClientRequest{Name: "Contoso", Email: "ap@contoso.test"})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@northwind.test", got.Email)
	assert.True(t, got.AccountBalance.IsZero())

	list, total, err := svc.List(ctx, PartnerListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Contoso", list[0].Name)

	list, total, err = svc.List(ctx, PartnerListFilter{Email: "NORTHWIND"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, created.ID, list[0].ID)

	updated, err := svc.Update(ctx, created.ID, UpdateClientRequest{Name: "Northwind Traders", Contact: "555-0200"})
	require.NoError(t, err)
	assert.Equal(t, "Northwind Traders", updated.Name)
	assert.True(t, updated.DiscountOffered.IsZero())
	assert.Greater(t, updated.Version, got.Version)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestClientService_DeleteWithOrders(t *testing.T) {
	store := testutil.NewTestStore(t)
	svc := NewClientService(store.Repos, store.Scope)
	ctx := context.Background()

	client, err := svc.Create(ctx, CreateClientRequest{Name: "Fabrikam"})
	require.NoError(t, err)

	order, _, err := trade.NewDirectSalesOrder(client.ID, uuid.New(), 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, store.Repos.SalesOrders().Save(ctx, order))

	err = svc.Delete(ctx, client.ID)
	assert.Equal(t, shared.CodeConflict, shared.CodeOf(err))

	_, err = svc.GetByID(ctx, client.ID)
	assert.NoError(t, err)
}
