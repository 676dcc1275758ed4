package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPurchaseOrder(t *testing.T, db *gorm.DB) *trade.PurchaseOrder {
	t.Helper()
	po, err := trade.NewPurchaseOrder(uuid.New(), uuid.New(), 40, decimal.RequireFromString("2.50"), nil, "")
	require.NoError(t, err)
	require.NoError(t, NewGormPurchaseOrderRepository(db).Save(context.Background(), po))
	return po
}

func TestGormAcknowledgementRepository_FinalIsUnique(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	po := seedPurchaseOrder(t, db)
	repo := NewGormAcknowledgementRepository(db)

	neg := trade.NegotiateAcknowledgements(po, nil)
	ack, err := neg.Propose(decimal.RequireFromString("2.40"))
	require.NoError(t, err)
	_, err = neg.Accept(ack.ID)
	require.NoError(t, err)
	require.NoError(t, repo.SaveAll(ctx, neg.Changed()...))

	final, err := repo.FindFinal(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, ack.ID, final.ID)
	assert.Equal(t, 1, final.Version)

	t.Run("second final from a stale read", func(t *testing.T) {
		rogue := &trade.Acknowledgement{
			BaseEntity:      shared.NewBaseEntity(),
			PurchaseOrderID: po.ID,
			Version:         2,
			PricePerItem:    decimal.RequireFromString("2.30"),
			Status:          trade.AcknowledgementStatusAccepted,
			Final:           true,
		}
		requireCode(t, repo.SaveAll(ctx, rogue), shared.CodeAlreadyFinal)
	})

	t.Run("version taken by a concurrent proposal", func(t *testing.T) {
		dup := &trade.Acknowledgement{
			BaseEntity:      shared.NewBaseEntity(),
			PurchaseOrderID: po.ID,
			Version:         1,
			PricePerItem:    decimal.RequireFromString("2.20"),
			Status:          trade.AcknowledgementStatusProposed,
		}
		requireCode(t, repo.SaveAll(ctx, dup), shared.CodeConflict)
	})

	acks, err := repo.FindByPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Len(t, acks, 1)
}

func TestGormDeliveryInboundRepository_SingleReceipt(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	po := seedPurchaseOrder(t, db)
	repo := NewGormDeliveryInboundRepository(db)
	now := time.Now()

	received := func() *trade.DeliveryInbound {
		return &trade.DeliveryInbound{
			BaseEntity:      shared.NewBaseEntity(),
			PurchaseOrderID: po.ID,
			ActualDate:      &now,
			Status:          trade.DeliveryInboundStatusReceived,
		}
	}
	require.NoError(t, repo.Save(ctx, &trade.DeliveryInbound{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: po.ID,
		Status:          trade.DeliveryInboundStatusInTransit,
	}))
	require.NoError(t, repo.Save(ctx, received()))
	requireCode(t, repo.Save(ctx, received()), shared.CodeDuplicateReceipt)

	deliveries, err := repo.FindByPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 2)
}

func TestGormBillRepository_OneBillPerOrder(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	po := seedPurchaseOrder(t, db)
	repo := NewGormBillRepository(db)

	newBill := func() *trade.Bill {
		return &trade.Bill{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			PurchaseOrderID:   po.ID,
			SupplierID:        po.SupplierID,
			AcknowledgementID: uuid.New(),
			Status:            trade.BillStatusPending,
		}
	}
	first := newBill()
	require.NoError(t, repo.Save(ctx, first))
	requireCode(t, repo.Save(ctx, newBill()), shared.CodeDuplicateBill)

	got, err := repo.FindByPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repo.FindByPurchaseOrder(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	count, err := repo.Count(ctx, shared.DefaultFilter().With("status", string(trade.BillStatusPending)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormQuoteRepository_OpenQuotesAndChains(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormQuoteRepository(db)
	clientID, itemID := uuid.New(), uuid.New()
	price := decimal.RequireFromString("9.90")

	q1, err := trade.NewQuote(clientID, itemID, 5, price)
	require.NoError(t, err)
	q2, err := trade.NewQuote(clientID, itemID, 8, price)
	require.NoError(t, err)
	other, err := trade.NewQuote(clientID, uuid.New(), 1, price)
	require.NoError(t, err)
	require.NoError(t, repo.SaveAll(ctx, q1, q2, other))

	open, err := repo.FindOpenByClientAndItem(ctx, clientID, itemID)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.ElementsMatch(t, []uuid.UUID{q1.ID, q2.ID}, []uuid.UUID{open[0].ID, open[1].ID})

	chain, err := repo.FindChain(ctx, q1.ChainID)
	require.NoError(t, err)
	neg := trade.NegotiateQuotes(q1, chain, open)
	_, err = neg.Accept(q1.ID)
	require.NoError(t, err)
	require.NoError(t, repo.SaveAll(ctx, neg.Changed()...))

	open, err = repo.FindOpenByClientAndItem(ctx, clientID, itemID)
	require.NoError(t, err)
	assert.Empty(t, open)

	rival, err := repo.FindByID(ctx, q2.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.QuoteStatusSuperseded, rival.Status)

	rogue := &trade.Quote{
		BaseEntity:    shared.NewBaseEntity(),
		ChainID:       q1.ChainID,
		ClientID:      clientID,
		ItemID:        itemID,
		QtyOrdered:    5,
		ProposedPrice: price,
		Status:        trade.QuoteStatusAccepted,
		Version:       2,
		Final:         true,
	}
	requireCode(t, repo.SaveAll(ctx, rogue), shared.CodeAlreadyFinalized)
}

func TestGormInvoiceRepository_OneInvoicePerOrder(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	orders := NewGormSalesOrderRepository(db)
	invoices := NewGormInvoiceRepository(db)

	order, inv, err := trade.NewDirectSalesOrder(uuid.New(), uuid.New(), 3, decimal.RequireFromString("12.00"))
	require.NoError(t, err)
	require.NoError(t, orders.Save(ctx, order))
	require.NoError(t, invoices.Save(ctx, inv))

	got, err := invoices.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("36")))
	assert.Equal(t, order.ID, got.SalesOrderID)

	second := &trade.Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SalesOrderID:      order.ID,
		ClientID:          order.ClientID,
		Amount:            got.Amount,
		PaymentStatus:     trade.InvoiceStatusPending,
	}
	requireCode(t, invoices.Save(ctx, second), shared.CodeConflict)

	count, err := orders.CountByClient(ctx, order.ClientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
