package trade

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/supplychain/internal/application/txscope"
	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcurementService runs the purchase order lifecycle: negotiation,
// acknowledgement, receipt, billing and payment
type ProcurementService struct {
	repos          txscope.Repositories
	scope          txscope.TransactionScope
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewProcurementService creates a new ProcurementService
func NewProcurementService(repos txscope.Repositories, scope txscope.TransactionScope) *ProcurementService {
	return &ProcurementService{
		repos: repos,
		scope: scope,
		now:   time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ProcurementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreatePurchaseOrder opens a purchase order awaiting price negotiation
func (s *ProcurementService) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	var expected *time.Time
	if req.ExpectedDeliveryDate != nil {
		d, err := parseDate(*req.ExpectedDeliveryDate)
		if err != nil {
			return nil, shared.NewDomainError(shared.CodeValidation, "Expected delivery date must be YYYY-MM-DD")
		}
		expected = &d
	}

	if err := mustExist(ctx, s.repos.Suppliers().ExistsByID, req.SupplierID, "Supplier"); err != nil {
		return nil, err
	}
	if err := mustExist(ctx, s.repos.StockItems().ExistsByID, req.ItemID, "Stock item"); err != nil {
		return nil, err
	}

	po, err := trade.NewPurchaseOrder(req.SupplierID, req.ItemID, req.QtyOrdered, req.ExpectedPricePerItem, expected, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.repos.PurchaseOrders().Save(ctx, po); err != nil {
		return nil, err
	}

	var events txscope.Events
	events.Collect(po)
	events.Publish(ctx, s.eventPublisher)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// GetPurchaseOrder retrieves a purchase order by ID
func (s *ProcurementService) GetPurchaseOrder(ctx context.Context, poID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.repos.PurchaseOrders().FindByID(ctx, poID)
	if err != nil {
		return nil, notFound(err, "Purchase order")
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// ListPurchaseOrders lists purchase orders, newest first by default
func (s *ProcurementService) ListPurchaseOrders(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	domainFilter := pageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	setFilter(domainFilter, "status", filter.Status)
	setFilter(domainFilter, "supplier_id", filter.SupplierID)
	setFilter(domainFilter, "item_id", filter.ItemID)

	orders, err := s.repos.PurchaseOrders().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.PurchaseOrders().Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// Acknowledge records the supplier's answer to a purchase order.
//
//   - accepted: a new version is proposed at the given price and accepted;
//     the price is locked on the order and an inbound delivery is opened.
//   - rejected: a new version is proposed and rejected; the order stays
//     negotiable. Without a price the expected price is recorded.
//   - revised: the open version is revised to the new price, or a new
//     version is proposed when none is open.
func (s *ProcurementService) Acknowledge(ctx context.Context, poID uuid.UUID, req AcknowledgePurchaseOrderRequest) (*AcknowledgementResponse, error) {
	action := trade.AcknowledgementAction(strings.ToLower(strings.TrimSpace(req.Action)))
	if !action.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidAction, "Invalid acknowledgement action: must be one of accepted, rejected, revised")
	}
	if action != trade.AcknowledgementActionRejected && req.FinalPricePerItem == nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "final_price_per_item is required for accepted and revised")
	}

	var events txscope.Events
	var result *trade.Acknowledgement
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		po, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, poID)
		if err != nil {
			return notFound(err, "Purchase order")
		}
		if !po.IsNegotiable() {
			return shared.NewDomainError(shared.CodeInvalidState, "Purchase order cannot be acknowledged in its current state")
		}
		acks, err := repos.Acknowledgements().FindByPurchaseOrder(ctx, po.ID)
		if err != nil {
			return err
		}

		n := trade.NegotiateAcknowledgements(po, acks)
		switch action {
		case trade.AcknowledgementActionAccepted:
			if result, err = n.Propose(*req.FinalPricePerItem); err != nil {
				return err
			}
			if _, err = n.Accept(result.ID); err != nil {
				return err
			}
		case trade.AcknowledgementActionRejected:
			price := po.ExpectedPrice
			if req.FinalPricePerItem != nil {
				price = *req.FinalPricePerItem
			}
			if result, err = n.Propose(price); err != nil {
				return err
			}
			if _, err = n.Reject(result.ID); err != nil {
				return err
			}
		case trade.AcknowledgementActionRevised:
			if open, ok := n.Open(); ok {
				result, err = n.Revise(open.ID, *req.FinalPricePerItem)
			} else {
				result, err = n.Propose(*req.FinalPricePerItem)
			}
			if err != nil {
				return err
			}
		}
		result.Note = strings.TrimSpace(req.Note)

		return s.settleNegotiation(ctx, repos, po, n, &events)
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.eventPublisher)
	response := ToAcknowledgementResponse(result)
	return &response, nil
}

// AcceptAcknowledgement accepts a specific open acknowledgement version
func (s *ProcurementService) AcceptAcknowledgement(ctx context.Context, poID, ackID uuid.UUID) (*AcknowledgementResponse, error) {
	return s.decide(ctx, poID, ackID, (*trade.Negotiation[*trade.Acknowledgement]).Accept)
}

// RejectAcknowledgement rejects a specific open acknowledgement version
func (s *ProcurementService) RejectAcknowledgement(ctx context.Context, poID, ackID uuid.UUID) (*AcknowledgementResponse, error) {
	return s.decide(ctx, poID, ackID, (*trade.Negotiation[*trade.Acknowledgement]).Reject)
}

func (s *ProcurementService) decide(
	ctx context.Context,
	poID, ackID uuid.UUID,
	apply func(*trade.Negotiation[*trade.Acknowledgement], uuid.UUID) (*trade.Acknowledgement, error),
) (*AcknowledgementResponse, error) {
	var events txscope.Events
	var result *trade.Acknowledgement
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		po, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, poID)
		if err != nil {
			return notFound(err, "Purchase order")
		}
		acks, err := repos.Acknowledgements().FindByPurchaseOrder(ctx, po.ID)
		if err != nil {
			return err
		}
		n := trade.NegotiateAcknowledgements(po, acks)
		if result, err = apply(n, ackID); err != nil {
			return notFound(err, "Acknowledgement")
		}
		return s.settleNegotiation(ctx, repos, po, n, &events)
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.eventPublisher)
	response := ToAcknowledgementResponse(result)
	return &response, nil
}

// settleNegotiation writes back the changed acknowledgements and, once a
// final version exists, acknowledges the order and opens its inbound delivery
func (s *ProcurementService) settleNegotiation(
	ctx context.Context,
	repos txscope.Repositories,
	po *trade.PurchaseOrder,
	n *trade.Negotiation[*trade.Acknowledgement],
	events *txscope.Events,
) error {
	if err := repos.Acknowledgements().SaveAll(ctx, n.Changed()...); err != nil {
		return err
	}
	final, ok := n.Final()
	if !ok {
		return nil
	}
	delivery, err := po.Acknowledge(final)
	if err != nil {
		return err
	}
	if err := repos.PurchaseOrders().Save(ctx, po); err != nil {
		return err
	}
	if err := repos.InboundDeliveries().Save(ctx, delivery); err != nil {
		return err
	}
	events.Collect(po)
	return nil
}

// ListAcknowledgements returns every acknowledgement of an order by version
func (s *ProcurementService) ListAcknowledgements(ctx context.Context, poID uuid.UUID) ([]AcknowledgementResponse, error) {
	if _, err := s.repos.PurchaseOrders().FindByID(ctx, poID); err != nil {
		return nil, notFound(err, "Purchase order")
	}
	acks, err := s.repos.Acknowledgements().FindByPurchaseOrder(ctx, poID)
	if err != nil {
		return nil, err
	}
	responses := make([]AcknowledgementResponse, len(acks))
	for i, a := range acks {
		responses[i] = ToAcknowledgementResponse(a)
	}
	return responses, nil
}

// Receive books the arrival of an acknowledged order into inventory
func (s *ProcurementService) Receive(ctx context.Context, poID uuid.UUID, req ReceivePurchaseOrderRequest) (*ReceivePurchaseOrderResponse, error) {
	actual, err := parseDate(req.ActualDateOfDelivery)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Actual date of delivery must be YYYY-MM-DD")
	}

	var events txscope.Events
	var response *ReceivePurchaseOrderResponse
	err = s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		po, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, poID)
		if err != nil {
			return notFound(err, "Purchase order")
		}
		deliveries, err := repos.InboundDeliveries().FindByPurchaseOrder(ctx, po.ID)
		if err != nil {
			return err
		}
		delivery, err := po.Receive(deliveries, actual)
		if err != nil {
			return err
		}
		movement, err := repos.Ledger().Receive(ctx, po.ItemID, po.QtyOrdered,
			inventory.Reference{Type: inventory.RefPurchaseOrder, ID: po.ID})
		if err != nil {
			return err
		}
		if err := repos.InboundDeliveries().Save(ctx, delivery); err != nil {
			return err
		}
		if err := repos.PurchaseOrders().Save(ctx, po); err != nil {
			return err
		}

		events.Collect(po)
		events.Add(movement.Events()...)
		response = &ReceivePurchaseOrderResponse{
			PurchaseOrderID:   po.ID,
			DeliveryInboundID: delivery.ID,
			NewInventoryQty:   movement.QuantityAfter,
			Message:           "Goods received and inventory updated",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.eventPublisher)
	return response, nil
}

// ListDeliveries returns the inbound deliveries of an order
func (s *ProcurementService) ListDeliveries(ctx context.Context, poID uuid.UUID) ([]DeliveryInboundResponse, error) {
	if _, err := s.repos.PurchaseOrders().FindByID(ctx, poID); err != nil {
		return nil, notFound(err, "Purchase order")
	}
	deliveries, err := s.repos.InboundDeliveries().FindByPurchaseOrder(ctx, poID)
	if err != nil {
		return nil, err
	}
	responses := make([]DeliveryInboundResponse, len(deliveries))
	for i, d := range deliveries {
		responses[i] = ToDeliveryInboundResponse(d)
	}
	return responses, nil
}

// CreateBill bills a received order and charges the supplier account
func (s *ProcurementService) CreateBill(ctx context.Context, req CreateBillRequest) (*BillResponse, error) {
	var events txscope.Events
	var response BillResponse
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		po, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, req.PurchaseOrderID)
		if err != nil {
			return notFound(err, "Purchase order")
		}
		existing, err := optional(repos.Bills().FindByPurchaseOrder(ctx, po.ID))
		if err != nil {
			return err
		}
		final, err := optional(repos.Acknowledgements().FindFinal(ctx, po.ID))
		if err != nil {
			return err
		}

		bill, amount, err := trade.NewBill(po, final, existing)
		if err != nil {
			return err
		}
		if err := repos.Bills().Save(ctx, bill); err != nil {
			return err
		}

		supplier, err := repos.Suppliers().FindByIDForUpdate(ctx, po.SupplierID)
		if err != nil {
			return notFound(err, "Supplier")
		}
		if err := supplier.RecordBill(amount); err != nil {
			return err
		}
		if err := repos.Suppliers().Save(ctx, supplier); err != nil {
			return err
		}

		events.Collect(bill)
		response = ToBillResponse(bill, amount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.eventPublisher)
	return &response, nil
}

// PayBill settles a bill; the amount is recomputed from the order and its
// final acknowledgement
func (s *ProcurementService) PayBill(ctx context.Context, billID uuid.UUID, req PayBillRequest) (*BillPaymentResponse, error) {
	var events txscope.Events
	var response BillPaymentResponse
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		bill, err := repos.Bills().FindByIDForUpdate(ctx, billID)
		if err != nil {
			return notFound(err, "Bill")
		}
		po, err := repos.PurchaseOrders().FindByID(ctx, bill.PurchaseOrderID)
		if err != nil {
			return notFound(err, "Purchase order")
		}
		ack, err := repos.Acknowledgements().FindByID(ctx, bill.AcknowledgementID)
		if err != nil {
			return notFound(err, "Acknowledgement")
		}

		amount, err := bill.Pay(po, ack, req.PaymentReference, s.now().UTC())
		if err != nil {
			return err
		}
		if err := repos.Bills().Save(ctx, bill); err != nil {
			return err
		}

		supplier, err := repos.Suppliers().FindByIDForUpdate(ctx, bill.SupplierID)
		if err != nil {
			return notFound(err, "Supplier")
		}
		if err := supplier.RecordPayment(amount); err != nil {
			return err
		}
		if err := repos.Suppliers().Save(ctx, supplier); err != nil {
			return err
		}

		events.Collect(bill)
		response = BillPaymentResponse{
			ID:               bill.ID,
			PaymentStatus:    bill.Status.String(),
			PaymentReference: bill.PaymentReference,
			Amount:           amount,
			PaidAt:           *bill.PaidAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.eventPublisher)
	return &response, nil
}

// GetBill retrieves a bill with its computed amount
func (s *ProcurementService) GetBill(ctx context.Context, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.repos.Bills().FindByID(ctx, billID)
	if err != nil {
		return nil, notFound(err, "Bill")
	}
	amount, err := s.billAmount(ctx, bill)
	if err != nil {
		return nil, err
	}
	response := ToBillResponse(bill, amount)
	return &response, nil
}

// ListBills lists bills newest first
func (s *ProcurementService) ListBills(ctx context.Context, filter BillListFilter) ([]BillResponse, int64, error) {
	domainFilter := pageFilter(filter.Page, filter.PageSize, "", "")
	setFilter(domainFilter, "status", filter.Status)
	setFilter(domainFilter, "supplier_id", filter.SupplierID)
	setFilter(domainFilter, "purchase_order_id", filter.PurchaseOrderID)

	bills, err := s.repos.Bills().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Bills().Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BillResponse, len(bills))
	for i := range bills {
		amount, err := s.billAmount(ctx, &bills[i])
		if err != nil {
			return nil, 0, err
		}
		responses[i] = ToBillResponse(&bills[i], amount)
	}
	return responses, total, nil
}

// SupplierBills lists the bills of one supplier, newest first
func (s *ProcurementService) SupplierBills(ctx context.Context, supplierID uuid.UUID, filter BillListFilter) ([]BillResponse, int64, error) {
	if err := mustExist(ctx, s.repos.Suppliers().ExistsByID, supplierID, "Supplier"); err != nil {
		return nil, 0, err
	}
	filter.SupplierID = supplierID.String()
	return s.ListBills(ctx, filter)
}

func (s *ProcurementService) billAmount(ctx context.Context, bill *trade.Bill) (decimal.Decimal, error) {
	po, err := s.repos.PurchaseOrders().FindByID(ctx, bill.PurchaseOrderID)
	if err != nil {
		return decimal.Zero, notFound(err, "Purchase order")
	}
	ack, err := s.repos.Acknowledgements().FindByID(ctx, bill.AcknowledgementID)
	if err != nil {
		return decimal.Zero, notFound(err, "Acknowledgement")
	}
	return trade.BillAmount(po, ack), nil
}

// ============================================================================
// helpers shared by the trade services
// ============================================================================

// notFound names the missing entity in a generic not-found error
func notFound(err error, entity string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(entity)
	}
	return err
}

// optional turns a not-found lookup into a nil result
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

func mustExist(ctx context.Context, exists func(context.Context, uuid.UUID) (bool, error), id uuid.UUID, entity string) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewNotFoundError(entity)
	}
	return nil
}

func pageFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	f.OrderBy = orderBy
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	return f
}

func setFilter(f shared.Filter, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		f.Filters[key] = value
	}
}
