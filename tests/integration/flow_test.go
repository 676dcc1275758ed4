//go:build integration

package integration

import (
	"context"
	"os"
	"sync"
	"testing"

	inventoryapp "github.com/erp/supplychain/internal/application/inventory"
	partnerapp "github.com/erp/supplychain/internal/application/partner"
	tradeapp "github.com/erp/supplychain/internal/application/trade"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain terminates the shared container after the package's tests
func TestMain(m *testing.M) {
	code := m.Run()
	terminateSharedContainer()
	os.Exit(code)
}

type services struct {
	items       *inventoryapp.StockItemService
	suppliers   *partnerapp.SupplierService
	clients     *partnerapp.ClientService
	procurement *tradeapp.ProcurementService
	sales       *tradeapp.SalesService
}

func newServices(tdb *TestDB) services {
	return services{
		items:       inventoryapp.NewStockItemService(tdb.Repos, tdb.Scope),
		suppliers:   partnerapp.NewSupplierService(tdb.Repos, tdb.Scope),
		clients:     partnerapp.NewClientService(tdb.Repos, tdb.Scope),
		procurement: tradeapp.NewProcurementService(tdb.Repos, tdb.Scope),
		sales:       tradeapp.NewSalesService(tdb.Repos, tdb.Scope),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func (s services) seedItem(t *testing.T, qty int) uuid.UUID {
	t.Helper()
	item, err := s.items.Create(context.Background(), inventoryapp.CreateStockItemRequest{
		ItemName: "Hex bolt M8",
		ItemQty:  qty,
		Rate:     dec("0.40"),
	})
	require.NoError(t, err)
	return item.ItemID
}

func (s services) itemQty(t *testing.T, id uuid.UUID) int {
	t.Helper()
	item, err := s.items.GetByID(context.Background(), id)
	require.NoError(t, err)
	return item.ItemQty
}

// acknowledgedPO creates a purchase order and accepts it at the given price
func (s services) acknowledgedPO(t *testing.T, itemID uuid.UUID, qty int, price string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	supplier, err := s.suppliers.Create(ctx, partnerapp.CreateSupplierRequest{Name: "Fastenal"})
	require.NoError(t, err)

	po, err := s.procurement.CreatePurchaseOrder(ctx, tradeapp.CreatePurchaseOrderRequest{
		SupplierID:           supplier.ID,
		ItemID:               itemID,
		QtyOrdered:           qty,
		ExpectedPricePerItem: dec(price),
	})
	require.NoError(t, err)

	_, err = s.procurement.Acknowledge(ctx, po.ID, tradeapp.AcknowledgePurchaseOrderRequest{
		Action:            "accepted",
		FinalPricePerItem: decPtr(price),
	})
	require.NoError(t, err)
	return po.ID
}

// race runs fn n times concurrently and returns the errors in no order
func race(n int, fn func() error) []error {
	var wg sync.WaitGroup
	errs := make([]error, n)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func successes(errs []error) (ok int, failed []error) {
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			failed = append(failed, err)
		}
	}
	return ok, failed
}

func TestProcurementFlow_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := context.Background()

	itemID := svc.seedItem(t, 5)
	poID := svc.acknowledgedPO(t, itemID, 12, "2.25")

	received, err := svc.procurement.Receive(ctx, poID, tradeapp.ReceivePurchaseOrderRequest{ActualDateOfDelivery: "2026-04-02"})
	require.NoError(t, err)
	assert.Equal(t, 17, received.NewInventoryQty)

	bill, err := svc.procurement.CreateBill(ctx, tradeapp.CreateBillRequest{PurchaseOrderID: poID})
	require.NoError(t, err)
	assert.True(t, dec("27").Equal(bill.Amount), "amount = %s", bill.Amount)

	paid, err := svc.procurement.PayBill(ctx, bill.ID, tradeapp.PayBillRequest{PaymentReference: "WIRE-7781"})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.PaymentStatus)

	_, err = svc.procurement.PayBill(ctx, bill.ID, tradeapp.PayBillRequest{PaymentReference: "WIRE-7782"})
	assert.Equal(t, shared.CodeAlreadyPaid, shared.CodeOf(err))

	movements, total, err := svc.items.Movements(ctx, itemID, inventoryapp.MovementListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, movements, 1)
	assert.Equal(t, 12, movements[0].Delta)
}

func TestConcurrentReceive_AppliesStockOnce(t *testing.T) {
	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := context.Background()

	itemID := svc.seedItem(t, 0)
	poID := svc.acknowledgedPO(t, itemID, 10, "1.00")

	errs := race(8, func() error {
		_, err := svc.procurement.Receive(ctx, poID, tradeapp.ReceivePurchaseOrderRequest{ActualDateOfDelivery: "2026-04-02"})
		return err
	})

	ok, failed := successes(errs)
	assert.Equal(t, 1, ok)
	for _, err := range failed {
		assert.Contains(t, []string{shared.CodeDuplicateReceipt, shared.CodeInvalidState}, shared.CodeOf(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 10, svc.itemQty(t, itemID))
}

func TestConcurrentBill_OnePerPurchaseOrder(t *testing.T) {
	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := context.Background()

	itemID := svc.seedItem(t, 0)
	poID := svc.acknowledgedPO(t, itemID, 4, "3.00")
	_, err := svc.procurement.Receive(ctx, poID, tradeapp.ReceivePurchaseOrderRequest{ActualDateOfDelivery: "2026-04-02"})
	require.NoError(t, err)

	errs := race(6, func() error {
		_, err := svc.procurement.CreateBill(ctx, tradeapp.CreateBillRequest{PurchaseOrderID: poID})
		return err
	})

	ok, failed := successes(errs)
	assert.Equal(t, 1, ok)
	for _, err := range failed {
		assert.Equal(t, shared.CodeDuplicateBill, shared.CodeOf(err), "unexpected error: %v", err)
	}

	bills, total, err := svc.procurement.ListBills(ctx, tradeapp.BillListFilter{PurchaseOrderID: poID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, bills, 1)
}

func TestConcurrentQuoteAccept_OneOrder(t *testing.T) {
	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := context.Background()

	itemID := svc.seedItem(t, 50)
	client, err := svc.clients.Create(ctx, partnerapp.CreateClientRequest{Name: "Contoso"})
	require.NoError(t, err)

	quote, err := svc.sales.CreateQuote(ctx, tradeapp.CreateQuoteRequest{
		ClientID:      client.ID,
		ItemID:        itemID,
		QtyOrdered:    5,
		ProposedPrice: dec("1.10"),
	})
	require.NoError(t, err)

	errs := race(5, func() error {
		_, err := svc.sales.AcceptQuote(ctx, quote.ID)
		return err
	})

	ok, failed := successes(errs)
	assert.Equal(t, 1, ok)
	for _, err := range failed {
		assert.NotEqual(t, "", shared.CodeOf(err), "expected a domain error, got %v", err)
	}
	assert.Equal(t, 45, svc.itemQty(t, itemID))

	orders, total, err := svc.sales.ListOrders(ctx, tradeapp.SalesOrderListFilter{ClientID: client.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)
}

func TestConcurrentDirectOrders_NeverOversell(t *testing.T) {
	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := context.Background()

	itemID := svc.seedItem(t, 10)
	client, err := svc.clients.Create(ctx, partnerapp.CreateClientRequest{Name: "Initech"})
	require.NoError(t, err)

	errs := race(6, func() error {
		_, err := svc.sales.CreateDirectOrder(ctx, tradeapp.CreateSalesOrderRequest{
			ClientID:   client.ID,
			ItemID:     itemID,
			QtyOrdered: 3,
			FinalPrice: dec("2.00"),
		})
		return err
	})

	ok, failed := successes(errs)
	assert.Equal(t, 3, ok)
	for _, err := range failed {
		assert.Equal(t, shared.CodeInsufficientInventory, shared.CodeOf(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, svc.itemQty(t, itemID))
}

func TestStockCheckConstraint(t *testing.T) {
	tdb := NewTestDB(t)
	svc := newServices(tdb)

	itemID := svc.seedItem(t, 2)

	err := tdb.Database.DB.Exec("UPDATE stock_items SET quantity = -1 WHERE id = ?", itemID).Error
	require.Error(t, err)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23514", pgErr.Code)
	assert.Equal(t, 2, svc.itemQty(t, itemID))
}
