package router_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	inventoryapp "github.com/erp/supplychain/internal/application/inventory"
	partnerapp "github.com/erp/supplychain/internal/application/partner"
	tradeapp "github.com/erp/supplychain/internal/application/trade"
	"github.com/erp/supplychain/internal/infrastructure/cache"
	"github.com/erp/supplychain/internal/infrastructure/config"
	"github.com/erp/supplychain/internal/infrastructure/persistence"
	"github.com/erp/supplychain/internal/interfaces/http/handler"
	"github.com/erp/supplychain/internal/interfaces/http/router"
	"github.com/erp/supplychain/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiHarness struct {
	engine *gin.Engine
}

func newAPI(t *testing.T, db handler.DatabaseChecker) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testutil.NewTestStore(t)
	if db == nil {
		db = &persistence.Database{DB: store.DB}
	}
	idem := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = idem.Close() })

	services := router.Services{
		StockItems:  inventoryapp.NewStockItemService(store.Repos, store.Scope),
		Suppliers:   partnerapp.NewSupplierService(store.Repos, store.Scope),
		Clients:     partnerapp.NewClientService(store.Repos, store.Scope),
		Procurement: tradeapp.NewProcurementService(store.Repos, store.Scope),
		Sales:       tradeapp.NewSalesService(store.Repos, store.Scope),
	}
	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:      "supplychain-test",
		HTTP:             config.HTTPConfig{MaxBodyBytes: 1 << 20},
		IdempotencyStore: idem,
		Health:           handler.NewHealthHandler(db, "supplychain-test", "test"),
	}, router.NewHandlers(services))
	require.NoError(t, err)

	return &apiHarness{engine: engine}
}

func (a *apiHarness) createItem(t *testing.T, qty int, rate string) inventoryapp.StockItemResponse {
	t.Helper()
	w := testutil.DoJSON(t, a.engine, http.MethodPost, "/api/v1/inventory/items", map[string]any{
		"item_name":    "Widget",
		"item_qty":     qty,
		"rate":         rate,
		"safety_stock": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.DataAs[inventoryapp.StockItemResponse](t, w)
}

func (a *apiHarness) getItem(t *testing.T, id uuid.UUID) inventoryapp.StockItemResponse {
	t.Helper()
	w := testutil.DoJSON(t, a.engine, http.MethodGet, "/api/v1/inventory/items/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return testutil.DataAs[inventoryapp.StockItemResponse](t, w)
}

func TestProcurementFlow(t *testing.T) {
	api := newAPI(t, nil)
	item := api.createItem(t, 10, "4.00")

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/suppliers", map[string]any{
		"supplier_name": "Acme Parts",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	supplier := testutil.DataAs[partnerapp.SupplierResponse](t, w)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/purchase-orders", map[string]any{
		"supplier_id":             supplier.ID,
		"item_id":                 item.ItemID,
		"qty_ordered":             5,
		"expected_price_per_item": "4.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	po := testutil.DataAs[tradeapp.PurchaseOrderResponse](t, w)
	base := "/api/v1/purchase-orders/" + po.ID.String()

	// billing before receipt is rejected
	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/bills", map[string]any{"po_id": po.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = testutil.DoJSON(t, api.engine, http.MethodPost, base+"/acknowledge", map[string]any{
		"action":               "ACCEPTED",
		"final_price_per_item": "3.50",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ack := testutil.DataAs[tradeapp.AcknowledgementResponse](t, w)
	assert.True(t, ack.IsFinal)
	assert.True(t, decimal.RequireFromString("3.50").Equal(ack.FinalPricePerItem))

	w = testutil.DoJSON(t, api.engine, http.MethodGet, base+"/acknowledgements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.DataAs[[]tradeapp.AcknowledgementResponse](t, w), 1)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, base+"/receive", map[string]any{
		"actual_date_of_delivery": "2026-01-10",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	received := testutil.DataAs[tradeapp.ReceivePurchaseOrderResponse](t, w)
	assert.Equal(t, 15, received.NewInventoryQty)
	assert.Equal(t, 15, api.getItem(t, item.ItemID).ItemQty)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, base+"/receive", map[string]any{
		"actual_date_of_delivery": "2026-01-11",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 15, api.getItem(t, item.ItemID).ItemQty)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/bills", map[string]any{"po_id": po.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bill := testutil.DataAs[tradeapp.BillResponse](t, w)
	assert.True(t, decimal.RequireFromString("17.5").Equal(bill.Amount), "amount %s", bill.Amount)
	assert.Equal(t, supplier.ID, bill.SupplierID)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/bills", map[string]any{"po_id": po.ID})
	testutil.AssertErrorCode(t, w, http.StatusBadRequest, "DUPLICATE_BILL")

	payPath := "/api/v1/bills/" + bill.ID.String() + "/pay"
	w = testutil.DoJSON(t, api.engine, http.MethodPost, payPath, map[string]any{"payment_reference": "WIRE-001"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := testutil.DataAs[tradeapp.BillPaymentResponse](t, w)
	assert.Equal(t, "paid", paid.PaymentStatus)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, payPath, map[string]any{"payment_reference": "WIRE-002"})
	testutil.AssertErrorCode(t, w, http.StatusBadRequest, "ALREADY_PAID")

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/suppliers/"+supplier.ID.String()+"/bills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.DataAs[[]tradeapp.BillResponse](t, w), 1)
}

func TestSalesFlow(t *testing.T) {
	api := newAPI(t, nil)
	item := api.createItem(t, 10, "4.00")

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/clients", map[string]any{
		"client_name": "Globex",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	client := testutil.DataAs[partnerapp.ClientResponse](t, w)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/quotes", map[string]any{
		"client_id":      client.ID,
		"item_id":        item.ItemID,
		"qty_ordered":    4,
		"proposed_price": "5",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := testutil.DataAs[tradeapp.QuoteResponse](t, w)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/quotes/"+first.ID.String()+"/revise", map[string]any{
		"proposed_price": "6",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	revised := testutil.DataAs[tradeapp.QuoteResponse](t, w)
	assert.Equal(t, first.ChainID, revised.ChainID)

	// superseded versions cannot be accepted
	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/quotes/"+first.ID.String()+"/accept", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/quotes/"+revised.ID.String()+"/accept", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	accepted := testutil.DataAs[tradeapp.AcceptQuoteResponse](t, w)
	assert.True(t, decimal.NewFromInt(24).Equal(accepted.Amount), "amount %s", accepted.Amount)
	assert.Equal(t, 6, api.getItem(t, item.ItemID).ItemQty)

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/quotes/"+revised.ID.String()+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.DataAs[[]tradeapp.QuoteResponse](t, w), 2)

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/clients/"+client.ID.String()+"/outstanding", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	outstanding := testutil.DataAs[handler.OutstandingResponse](t, w)
	assert.True(t, decimal.NewFromInt(24).Equal(outstanding.OutstandingAmount))

	orderPath := "/api/v1/orders/" + accepted.OrderID.String()
	w = testutil.DoJSON(t, api.engine, http.MethodPost, orderPath+"/deliver", map[string]any{
		"date_of_delivery": "2026-02-01",
		"delivered_qty":    3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	delivery := testutil.DataAs[tradeapp.DeliveryOutboundResponse](t, w)
	assert.Equal(t, "partially_delivered", delivery.OrderStatus)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, orderPath+"/deliver", map[string]any{
		"date_of_delivery": "2026-02-02",
		"delivered_qty":    2,
	})
	testutil.AssertErrorCode(t, w, http.StatusBadRequest, "OVER_DELIVERY")

	w = testutil.DoJSON(t, api.engine, http.MethodPost, orderPath+"/cancel", nil)
	testutil.AssertErrorCode(t, w, http.StatusBadRequest, "INVALID_STATE")

	w = testutil.DoJSON(t, api.engine, http.MethodGet, orderPath+"/deliveries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.DataAs[[]tradeapp.DeliveryOutboundResponse](t, w), 1)

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/clients/"+client.ID.String()+"/invoices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	invoices := testutil.DataAs[[]tradeapp.InvoiceResponse](t, w)
	require.Len(t, invoices, 1)
	assert.Equal(t, accepted.InvoiceID, invoices[0].ID)
}

func TestDirectOrderCancelReleasesStock(t *testing.T) {
	api := newAPI(t, nil)
	item := api.createItem(t, 10, "4.00")

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/clients", map[string]any{"client_name": "Initech"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	client := testutil.DataAs[partnerapp.ClientResponse](t, w)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/orders", map[string]any{
		"client_id":   client.ID,
		"item_id":     item.ItemID,
		"qty_ordered": 20,
		"final_price": "5",
	})
	testutil.AssertErrorCode(t, w, http.StatusBadRequest, "INSUFFICIENT_INVENTORY")

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/orders", map[string]any{
		"client_id":   client.ID,
		"item_id":     item.ItemID,
		"qty_ordered": 7,
		"final_price": "5",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := testutil.DataAs[tradeapp.SalesOrderResponse](t, w)
	assert.Equal(t, "confirmed", order.Status)
	assert.Equal(t, 3, api.getItem(t, item.ItemID).ItemQty)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/orders/"+order.ID.String()+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cancelled := testutil.DataAs[tradeapp.CancelSalesOrderResponse](t, w)
	assert.Equal(t, 7, cancelled.ReleasedQty)
	assert.Equal(t, 10, api.getItem(t, item.ItemID).ItemQty)
}

func TestRequestErrors(t *testing.T) {
	api := newAPI(t, nil)

	t.Run("validation failure", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/inventory/items", map[string]any{
			"item_name": "Widget",
			"rate":      "0",
		})
		testutil.AssertErrorCode(t, w, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
		env := testutil.DecodeEnvelope(t, w)
		assert.NotEmpty(t, env.Error.Details)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/inventory/items", `{"item_name":`)
		testutil.AssertErrorCode(t, w, http.StatusBadRequest, "BAD_REQUEST")
	})

	t.Run("bad uuid", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/bills/not-a-uuid", nil)
		testutil.AssertErrorCode(t, w, http.StatusBadRequest, "BAD_REQUEST")
	})

	t.Run("unknown id", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/quotes/"+uuid.NewString(), nil)
		testutil.AssertErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("unknown route", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/shipments", nil)
		testutil.AssertErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("request id echoed", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/quotes/"+uuid.NewString(), nil,
			"X-Request-ID", "req-42")
		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
		env := testutil.DecodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "req-42", env.Error.RequestID)
	})
}

func TestIdempotentCreate(t *testing.T) {
	api := newAPI(t, nil)
	body := map[string]any{"client_name": "Umbrella"}

	first := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/clients", body, "Idempotency-Key", "client-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/clients", body, "Idempotency-Key", "client-1")
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())

	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t,
		testutil.DataAs[partnerapp.ClientResponse](t, first).ID,
		testutil.DataAs[partnerapp.ClientResponse](t, second).ID)

	w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.DataAs[[]partnerapp.ClientResponse](t, w), 1)
}

type downDatabase struct{}

func (downDatabase) Ping(context.Context) error { return errors.New("connection refused") }

func (downDatabase) Stats() (persistence.ConnectionStats, error) {
	return persistence.ConnectionStats{}, errors.New("connection refused")
}

func TestProbes(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		api := newAPI(t, nil)

		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", testutil.DataAs[handler.HealthResponse](t, w).Status)

		w = testutil.DoJSON(t, api.engine, http.MethodGet, "/health/ready", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		api := newAPI(t, downDatabase{})

		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/health/ready", nil)
		testutil.AssertErrorCode(t, w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE")
	})

	t.Run("swagger disabled", func(t *testing.T) {
		api := newAPI(t, nil)

		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/swagger/index.html", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
