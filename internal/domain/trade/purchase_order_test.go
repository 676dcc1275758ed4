package trade

import (
	"testing"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acknowledgeTestPO(t *testing.T, po *PurchaseOrder, p string) (*Acknowledgement, *DeliveryInbound) {
	t.Helper()
	n := NegotiateAcknowledgements(po, nil)
	ack, err := n.Propose(price(p))
	require.NoError(t, err)
	_, err = n.Accept(ack.ID)
	require.NoError(t, err)
	delivery, err := po.Acknowledge(ack)
	require.NoError(t, err)
	return ack, delivery
}

// ============================================
// PurchaseOrderStatus Tests
// ============================================

func TestPurchaseOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  PurchaseOrderStatus
		isValid bool
	}{
		{PurchaseOrderStatusPendingNegotiation, true},
		{PurchaseOrderStatusAcknowledged, true},
		{PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatus("DRAFT"), false},
		{PurchaseOrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestPurchaseOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PurchaseOrderStatus
		to       PurchaseOrderStatus
		canTrans bool
	}{
		{PurchaseOrderStatusPendingNegotiation, PurchaseOrderStatusAcknowledged, true},
		{PurchaseOrderStatusPendingNegotiation, PurchaseOrderStatusReceived, false},
		{PurchaseOrderStatusAcknowledged, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusAcknowledged, PurchaseOrderStatusPendingNegotiation, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusAcknowledged, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusReceived, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// PurchaseOrder Tests
// ============================================

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		expected := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		po, err := NewPurchaseOrder(uuid.New(), uuid.New(), 50, price("10"), &expected, "  rush  ")
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusPendingNegotiation, po.Status)
		assert.Nil(t, po.FinalPricePerItem)
		assert.Equal(t, "rush", po.Notes)
		require.Len(t, po.GetDomainEvents(), 1)
		assert.Equal(t, EventTypePurchaseOrderCreated, po.GetDomainEvents()[0].EventType())
	})

	t.Run("invalid quantity", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), uuid.New(), 0, price("10"), nil, "")
		assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	})

	t.Run("invalid price", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), uuid.New(), 5, price("-1"), nil, "")
		assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	})

	t.Run("missing supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.Nil, uuid.New(), 5, price("1"), nil, "")
		assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	})
}

func TestPurchaseOrder_Acknowledge(t *testing.T) {
	expected := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	po, err := NewPurchaseOrder(uuid.New(), uuid.New(), 50, price("10"), &expected, "")
	require.NoError(t, err)

	assert.True(t, po.TotalAmount().Equal(price("500")), "expected price stands in while pending")
	assert.Nil(t, po.FinalPricePerItem)

	ack, delivery := acknowledgeTestPO(t, po, "9")

	assert.Equal(t, PurchaseOrderStatusAcknowledged, po.Status)
	require.NotNil(t, po.FinalPricePerItem)
	assert.True(t, po.FinalPricePerItem.Equal(price("9")))
	assert.Equal(t, DeliveryInboundStatusInTransit, delivery.Status)
	assert.Equal(t, &expected, delivery.ExpectedDate)
	assert.True(t, po.TotalAmount().Equal(price("450")))

	_, err = po.Acknowledge(ack)
	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))
}

func TestPurchaseOrder_Acknowledge_RequiresFinal(t *testing.T) {
	po := newTestPO(t)
	n := NegotiateAcknowledgements(po, nil)
	ack, err := n.Propose(price("9"))
	require.NoError(t, err)

	_, err = po.Acknowledge(ack)
	assert.Equal(t, shared.CodeMissingFinalAcknowledgement, shared.CodeOf(err))
	assert.Equal(t, PurchaseOrderStatusPendingNegotiation, po.Status)
}

func TestPurchaseOrder_Receive(t *testing.T) {
	po := newTestPO(t)

	_, err := po.Receive(nil, time.Now())
	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err), "cannot receive before acknowledgement")

	_, delivery := acknowledgeTestPO(t, po, "9")
	actual := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	received, err := po.Receive([]*DeliveryInbound{delivery}, actual)
	require.NoError(t, err)
	assert.Equal(t, delivery.ID, received.ID)
	assert.Equal(t, DeliveryInboundStatusReceived, received.Status)
	assert.Equal(t, actual, *received.ActualDate)
	assert.Equal(t, PurchaseOrderStatusReceived, po.Status)

	_, err = po.Receive([]*DeliveryInbound{delivery}, actual)
	assert.Equal(t, shared.CodeDuplicateReceipt, shared.CodeOf(err))
}

// ============================================
// Bill Tests
// ============================================

func TestNewBill(t *testing.T) {
	po := newTestPO(t)
	ack, delivery := acknowledgeTestPO(t, po, "9")

	_, _, err := NewBill(po, ack, nil)
	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err), "PO must be received first")

	_, err = po.Receive([]*DeliveryInbound{delivery}, time.Now())
	require.NoError(t, err)

	_, _, err = NewBill(po, nil, nil)
	assert.Equal(t, shared.CodeMissingFinalAcknowledgement, shared.CodeOf(err))

	bill, amount, err := NewBill(po, ack, nil)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, BillStatusPending, bill.Status)
	assert.Equal(t, po.SupplierID, bill.SupplierID)
	assert.Equal(t, ack.ID, bill.AcknowledgementID)

	_, _, err = NewBill(po, ack, bill)
	assert.Equal(t, shared.CodeDuplicateBill, shared.CodeOf(err))
}

func TestBill_Pay(t *testing.T) {
	po := newTestPO(t)
	ack, delivery := acknowledgeTestPO(t, po, "9")
	_, err := po.Receive([]*DeliveryInbound{delivery}, time.Now())
	require.NoError(t, err)
	bill, _, err := NewBill(po, ack, nil)
	require.NoError(t, err)

	_, err = bill.Pay(po, ack, "  ", time.Now())
	assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))

	paidAt := time.Now()
	amount, err := bill.Pay(po, ack, "TX-001", paidAt)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(450)))
	assert.True(t, bill.IsPaid())
	assert.Equal(t, "TX-001", bill.PaymentReference)
	assert.Equal(t, &paidAt, bill.PaidAt)

	_, err = bill.Pay(po, ack, "TX-002", time.Now())
	assert.Equal(t, shared.CodeAlreadyPaid, shared.CodeOf(err))
	assert.Equal(t, "TX-001", bill.PaymentReference)
}
