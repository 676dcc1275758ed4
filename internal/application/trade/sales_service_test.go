package trade

import (
	"context"
	"testing"
	"time"

	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/domain/trade"
	"github.com/erp/supplychain/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type salesFixture struct {
	svc       *SalesService
	store     *testutil.TestStore
	publisher *testutil.RecordingPublisher
	clientID  uuid.UUID
	itemID    uuid.UUID
}

func newSalesFixture(t *testing.T, stock, safetyStock int) *salesFixture {
	t.Helper()
	store := testutil.NewTestStore(t)
	publisher := testutil.NewRecordingPublisher()
	svc := NewSalesService(store.Repos, store.Scope)
	svc.SetEventPublisher(publisher)
	svc.now = func() time.Time { return time.Date(2026, 4, 10, 15, 30, 0, 0, time.UTC) }
	return &salesFixture{
		svc:       svc,
		store:     store,
		publisher: publisher,
		clientID:  seedClient(t, store),
		itemID:    seedItem(t, store, stock, safetyStock),
	}
}

func (f *salesFixture) quote(t *testing.T, qty int, price string) *QuoteResponse {
	t.Helper()
	q, err := f.svc.CreateQuote(context.Background(), CreateQuoteRequest{
		ClientID:      f.clientID,
		ItemID:        f.itemID,
		QtyOrdered:    qty,
		ProposedPrice: dec(price),
	})
	require.NoError(t, err)
	return q
}

func (f *salesFixture) directOrder(t *testing.T, qty int, price string) *SalesOrderResponse {
	t.Helper()
	o, err := f.svc.CreateDirectOrder(context.Background(), CreateSalesOrderRequest{
		ClientID:   f.clientID,
		ItemID:     f.itemID,
		QtyOrdered: qty,
		FinalPrice: dec(price),
	})
	require.NoError(t, err)
	return o
}

func TestSalesService_QuoteRevisions(t *testing.T) {
	f := newSalesFixture(t, 50, 0)
	ctx := context.Background()

	first := f.quote(t, 10, "9.00")
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, trade.QuoteStatusSent.String(), first.Status)
	assert.True(t, dec("90").Equal(first.Amount))

	second, err := f.svc.ReviseQuote(ctx, first.ID, ReviseQuoteRequest{ProposedPrice: dec("8.50")})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, first.ChainID, second.ChainID)
	assert.Equal(t, trade.QuoteStatusRevised.String(), second.Status)
	assert.Equal(t, 10, second.QtyOrdered)

	_, err = f.svc.ReviseQuote(ctx, first.ID, ReviseQuoteRequest{ProposedPrice: dec("8.00")})
	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))

	_, err = f.svc.ReviseQuote(ctx, second.ID, ReviseQuoteRequest{ProposedPrice: dec("0")})
	assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))

	history, err := f.svc.QuoteHistory(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, trade.QuoteStatusSuperseded.String(), history[0].Status)
	require.NotNil(t, history[0].SupersededBy)
	assert.Equal(t, second.ID, *history[0].SupersededBy)

	_, err = f.svc.AcceptQuote(ctx, second.ID)
	require.NoError(t, err)

	_, err = f.svc.ReviseQuote(ctx, second.ID, ReviseQuoteRequest{ProposedPrice: dec("7.00")})
	assert.Equal(t, shared.CodeFinalAlreadySet, shared.CodeOf(err))

	_, err = f.svc.ReviseQuote(ctx, uuid.New(), ReviseQuoteRequest{ProposedPrice: dec("7.00")})
	assert.Equal(t, shared.CodeNotFound, shared.CodeOf(err))
}

func TestSalesService_AcceptQuote(t *testing.T) {
	f := newSalesFixture(t, 30, 25)
	ctx := context.Background()

	rival := f.quote(t, 3, "11.00")
	q := f.quote(t, 6, "10.00")

	accepted, err := f.svc.AcceptQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, accepted.QuoteID)
	assert.True(t, dec("60").Equal(accepted.Amount))

	assert.Equal(t, 24, itemQty(t, f.store, f.itemID))
	assert.True(t, dec("60").Equal(clientBalance(t, f.store, f.clientID)))

	order, err := f.svc.GetOrder(ctx, accepted.OrderID)
	require.NoError(t, err)
	assert.Equal(t, trade.SalesOrderStatusConfirmed.String(), order.Status)
	require.NotNil(t, order.QuoteID)
	assert.Equal(t, q.ID, *order.QuoteID)
	require.NotNil(t, order.DeliveredQty)
	assert.Zero(t, *order.DeliveredQty)

	invoice, err := f.svc.GetInvoice(ctx, accepted.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, accepted.OrderID, invoice.SalesOrderID)
	assert.Equal(t, trade.InvoiceStatusPending.String(), invoice.PaymentStatus)

	gotRival, err := f.svc.GetQuote(ctx, rival.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.QuoteStatusSuperseded.String(), gotRival.Status)
	require.NotNil(t, gotRival.SupersededBy)
	assert.Equal(t, q.ID, *gotRival.SupersededBy)

	gotQuote, err := f.svc.GetQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, gotQuote.IsFinal)

	types := f.publisher.Types()
	assert.Contains(t, types, trade.EventTypeQuoteAccepted)
	assert.Contains(t, types, trade.EventTypeSalesOrderConfirmed)
	assert.Contains(t, types, inventory.EventTypeStockAdjusted)
	assert.Contains(t, types, inventory.EventTypeStockBelowSafetyStock)

	_, err = f.svc.AcceptQuote(ctx, q.ID)
	assert.Equal(t, shared.CodeAlreadyFinalized, shared.CodeOf(err))

	_, err = f.svc.AcceptQuote(ctx, rival.ID)
	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))
	assert.Equal(t, 24, itemQty(t, f.store, f.itemID))
}

func TestSalesService_AcceptQuote_InsufficientInventory(t *testing.T) {
	f := newSalesFixture(t, 4, 0)
	ctx := context.Background()

	rival := f.quote(t, 2, "5.00")
	q := f.quote(t, 5, "5.00")

	_, err := f.svc.AcceptQuote(ctx, q.ID)
	assert.Equal(t, shared.CodeInsufficientInventory, shared.CodeOf(err))

	assert.Equal(t, 4, itemQty(t, f.store, f.itemID))
	assert.True(t, clientBalance(t, f.store, f.clientID).IsZero())

	gotRival, err := f.svc.GetQuote(ctx, rival.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.QuoteStatusSent.String(), gotRival.Status)

	gotQuote, err := f.svc.GetQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.False(t, gotQuote.IsFinal)

	_, total, err := f.svc.ListOrders(ctx, SalesOrderListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, f.publisher.Types())
}

func TestSalesService_DirectOrderDeliveries(t *testing.T) {
	f := newSalesFixture(t, 20, 0)
	ctx := context.Background()

	order := f.directOrder(t, 10, "3.00")
	assert.Equal(t, trade.SalesOrderStatusConfirmed.String(), order.Status)
	assert.Nil(t, order.QuoteID)
	assert.Equal(t, 10, itemQty(t, f.store, f.itemID))
	assert.True(t, dec("30").Equal(clientBalance(t, f.store, f.clientID)))

	partial, err := f.svc.Deliver(ctx, order.ID, DeliverSalesOrderRequest{DateOfDelivery: "2026-04-11", DeliveredQty: 4})
	require.NoError(t, err)
	assert.Equal(t, trade.SalesOrderStatusPartiallyDelivered.String(), partial.OrderStatus)
	require.NotNil(t, order.InvoiceID)
	assert.Equal(t, order.InvoiceID, partial.InvoiceID)

	_, err = f.svc.Deliver(ctx, order.ID, DeliverSalesOrderRequest{DateOfDelivery: "2026-04-12", DeliveredQty: 7})
	assert.Equal(t, shared.CodeOverDelivery, shared.CodeOf(err))

	_, err = f.svc.Deliver(ctx, order.ID, DeliverSalesOrderRequest{DateOfDelivery: "12.04.2026", DeliveredQty: 1})
	assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))

	_, err = f.svc.Cancel(ctx, order.ID)
	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))

	full, err := f.svc.Deliver(ctx, order.ID, DeliverSalesOrderRequest{DateOfDelivery: "2026-04-12", DeliveredQty: 6})
	require.NoError(t, err)
	assert.Equal(t, trade.SalesOrderStatusDelivered.String(), full.OrderStatus)

	got, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveredQty)
	assert.Equal(t, 10, *got.DeliveredQty)

	deliveries, err := f.svc.ListOrderDeliveries(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 2)

	_, err = f.svc.Deliver(ctx, order.ID, DeliverSalesOrderRequest{DateOfDelivery: "2026-04-13", DeliveredQty: 1})
	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))

	// Deliveries never touch the stock; it was reserved at confirmation.
	assert.Equal(t, 10, itemQty(t, f.store, f.itemID))

	_, err = f.svc.CreateDirectOrder(ctx, CreateSalesOrderRequest{
		ClientID: uuid.New(), ItemID: f.itemID, QtyOrdered: 1, FinalPrice: dec("1"),
	})
	assert.Equal(t, shared.CodeNotFound, shared.CodeOf(err))
}

func TestSalesService_Cancel(t *testing.T) {
	f := newSalesFixture(t, 12, 0)
	ctx := context.Background()

	order := f.directOrder(t, 5, "2.00")
	assert.Equal(t, 7, itemQty(t, f.store, f.itemID))
	f.publisher.Reset()

	cancelled, err := f.svc.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sales Order cancelled", cancelled.Message)
	assert.Equal(t, 5, cancelled.ReleasedQty)
	assert.Equal(t, trade.SalesOrderStatusCancelled.String(), cancelled.Status)
	assert.Equal(t, 12, itemQty(t, f.store, f.itemID))
	assert.Equal(t, []string{inventory.EventTypeStockAdjusted, trade.EventTypeSalesOrderCancelled}, f.publisher.Types())

	// The client keeps the charge until the invoice is voided.
	assert.True(t, dec("10").Equal(clientBalance(t, f.store, f.clientID)))

	_, err = f.svc.Cancel(ctx, order.ID)
	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))
	assert.Equal(t, 12, itemQty(t, f.store, f.itemID))

	_, err = f.svc.Cancel(ctx, uuid.New())
	assert.Equal(t, shared.CodeNotFound, shared.CodeOf(err))
}

func TestSalesService_Invoices(t *testing.T) {
	f := newSalesFixture(t, 40, 0)
	ctx := context.Background()

	first := f.directOrder(t, 4, "2.50")
	second := f.directOrder(t, 2, "7.00")
	assert.True(t, dec("24").Equal(clientBalance(t, f.store, f.clientID)))

	outstanding, err := f.svc.OutstandingAmount(ctx, f.clientID)
	require.NoError(t, err)
	assert.True(t, dec("24").Equal(outstanding))

	paid, err := f.svc.PayInvoice(ctx, *first.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, trade.InvoiceStatusPaid.String(), paid.PaymentStatus)
	require.NotNil(t, paid.PaidAt)
	assert.True(t, f.svc.now().Equal(*paid.PaidAt))
	assert.True(t, dec("14").Equal(clientBalance(t, f.store, f.clientID)))

	_, err = f.svc.VoidInvoice(ctx, *first.InvoiceID)
	assert.Equal(t, shared.CodeAlreadyPaid, shared.CodeOf(err))

	_, err = f.svc.PayInvoice(ctx, *first.InvoiceID)
	assert.Equal(t, shared.CodeAlreadyPaid, shared.CodeOf(err))

	voided, err := f.svc.VoidInvoice(ctx, *second.InvoiceID)
	require.NoError(t, err)
	assert.True(t, voided.Voided)
	assert.Equal(t, trade.InvoiceStatusVoided.String(), voided.PaymentStatus)
	assert.True(t, dec("14").Equal(clientBalance(t, f.store, f.clientID)))

	_, err = f.svc.PayInvoice(ctx, *second.InvoiceID)
	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))

	outstanding, err = f.svc.OutstandingAmount(ctx, f.clientID)
	require.NoError(t, err)
	assert.True(t, outstanding.IsZero())

	invoices, total, err := f.svc.ClientInvoices(ctx, f.clientID, InvoiceListFilter{PaymentStatus: "voided"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, invoices, 1)
	assert.Equal(t, second.ID, invoices[0].SalesOrderID)

	_, total, err = f.svc.ListInvoices(ctx, InvoiceListFilter{OrderID: first.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, _, err = f.svc.ClientInvoices(ctx, uuid.New(), InvoiceListFilter{})
	assert.Equal(t, shared.CodeNotFound, shared.CodeOf(err))

	_, err = f.svc.VoidInvoice(ctx, uuid.New())
	assert.Equal(t, shared.CodeNotFound, shared.CodeOf(err))
}
