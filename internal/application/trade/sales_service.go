package trade

import (
	"context"
	"time"

	"github.com/erp/supplychain/internal/application/txscope"
	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesService runs quotes, sales orders, deliveries and invoices
type SalesService struct {
	repos          txscope.Repositories
	scope          txscope.TransactionScope
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewSalesService creates a new SalesService
func NewSalesService(repos txscope.Repositories, scope txscope.TransactionScope) *SalesService {
	return &SalesService{
		repos: repos,
		scope: scope,
		now:   time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *SalesService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ============================================================================
// Quotes
// ============================================================================

// CreateQuote starts a quote chain at version 1
func (s *SalesService) CreateQuote(ctx context.Context, req CreateQuoteRequest) (*QuoteResponse, error) {
	if err := mustExist(ctx, s.repos.Clients().ExistsByID, req.ClientID, "Client"); err != nil {
		return nil, err
	}
	if err := mustExist(ctx, s.repos.StockItems().ExistsByID, req.ItemID, "Stock item"); err != nil {
		return nil, err
	}

	q, err := trade.NewQuote(req.ClientID, req.ItemID, req.QtyOrdered, req.ProposedPrice)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Quotes().SaveAll(ctx, q); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(q)
	return &response, nil
}

// ReviseQuote supersedes an open quote with a successor at a new price
func (s *SalesService) ReviseQuote(ctx context.Context, quoteID uuid.UUID, req ReviseQuoteRequest) (*QuoteResponse, error) {
	var successor *trade.Quote
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		q, err := repos.Quotes().FindByIDForUpdate(ctx, quoteID)
		if err != nil {
			return notFound(err, "Quote")
		}
		chain, err := repos.Quotes().FindChain(ctx, q.ChainID)
		if err != nil {
			return err
		}

		n := trade.NegotiateQuotes(latestQuote(chain, q), chain, nil)
		if successor, err = n.Revise(q.ID, req.ProposedPrice); err != nil {
			return err
		}
		return repos.Quotes().SaveAll(ctx, n.Changed()...)
	})
	if err != nil {
		return nil, err
	}

	response := ToQuoteResponse(successor)
	return &response, nil
}

// AcceptQuote turns a quote into a confirmed sales order. Every other open
// quote of the client for the item is superseded, stock is reserved, the
// invoice is issued and the client is charged. Nothing is persisted when
// stock is short.
func (s *SalesService) AcceptQuote(ctx context.Context, quoteID uuid.UUID) (*AcceptQuoteResponse, error) {
	var events txscope.Events
	var response AcceptQuoteResponse
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		q, err := repos.Quotes().FindByIDForUpdate(ctx, quoteID)
		if err != nil {
			return notFound(err, "Quote")
		}
		if err := q.EnsureAcceptable(); err != nil {
			return err
		}
		chain, err := repos.Quotes().FindChain(ctx, q.ChainID)
		if err != nil {
			return err
		}
		rivals, err := repos.Quotes().FindOpenByClientAndItem(ctx, q.ClientID, q.ItemID)
		if err != nil {
			return err
		}

		n := trade.NegotiateQuotes(latestQuote(chain, q), chain, rivals)
		accepted, err := n.Accept(q.ID)
		if err != nil {
			return err
		}
		order, invoice, err := trade.NewSalesOrderFromQuote(accepted)
		if err != nil {
			return err
		}
		if err := s.confirm(ctx, repos, order, invoice, &events); err != nil {
			return err
		}
		if err := repos.Quotes().SaveAll(ctx, n.Changed()...); err != nil {
			return err
		}

		response = AcceptQuoteResponse{
			QuoteID:   accepted.ID,
			OrderID:   order.ID,
			InvoiceID: invoice.ID,
			Amount:    invoice.Amount,
			Message:   "Quote accepted and sales order confirmed",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.eventPublisher)
	return &response, nil
}

// GetQuote retrieves a quote by ID
func (s *SalesService) GetQuote(ctx context.Context, quoteID uuid.UUID) (*QuoteResponse, error) {
	q, err := s.repos.Quotes().FindByID(ctx, quoteID)
	if err != nil {
		return nil, notFound(err, "Quote")
	}
	response := ToQuoteResponse(q)
	return &response, nil
}

// ListQuotes lists quotes, newest first by default
func (s *SalesService) ListQuotes(ctx context.Context, filter QuoteListFilter) ([]QuoteResponse, int64, error) {
	domainFilter := pageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	setFilter(domainFilter, "status", filter.Status)
	setFilter(domainFilter, "client_id", filter.ClientID)
	setFilter(domainFilter, "item_id", filter.ItemID)

	quotes, err := s.repos.Quotes().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Quotes().Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToQuoteResponse(&quotes[i])
	}
	return responses, total, nil
}

// QuoteHistory returns every version of the quote's chain, oldest first
func (s *SalesService) QuoteHistory(ctx context.Context, quoteID uuid.UUID) ([]QuoteResponse, error) {
	q, err := s.repos.Quotes().FindByID(ctx, quoteID)
	if err != nil {
		return nil, notFound(err, "Quote")
	}
	chain, err := s.repos.Quotes().FindChain(ctx, q.ChainID)
	if err != nil {
		return nil, err
	}
	responses := make([]QuoteResponse, len(chain))
	for i, c := range chain {
		responses[i] = ToQuoteResponse(c)
	}
	return responses, nil
}

// latestQuote picks the highest version of a chain; fallback is used when
// the chain is empty
func latestQuote(chain []*trade.Quote, fallback *trade.Quote) *trade.Quote {
	head := fallback
	for _, q := range chain {
		if q.Version > head.Version {
			head = q
		}
	}
	return head
}

// ============================================================================
// Sales orders
// ============================================================================

// CreateDirectOrder confirms an order placed without a quote
func (s *SalesService) CreateDirectOrder(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	var events txscope.Events
	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		if err := mustExist(ctx, repos.Clients().ExistsByID, req.ClientID, "Client"); err != nil {
			return err
		}
		if err := mustExist(ctx, repos.StockItems().ExistsByID, req.ItemID, "Stock item"); err != nil {
			return err
		}

		var invoice *trade.Invoice
		var err error
		order, invoice, err = trade.NewDirectSalesOrder(req.ClientID, req.ItemID, req.QtyOrdered, req.FinalPrice)
		if err != nil {
			return err
		}
		return s.confirm(ctx, repos, order, invoice, &events)
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.eventPublisher)
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// confirm reserves stock for a new order, stores it with its invoice and
// charges the client
func (s *SalesService) confirm(ctx context.Context, repos txscope.Repositories, order *trade.SalesOrder, invoice *trade.Invoice, events *txscope.Events) error {
	movement, err := repos.Ledger().Reserve(ctx, order.ItemID, order.QtyOrdered,
		inventory.Reference{Type: inventory.RefSalesOrder, ID: order.ID})
	if err != nil {
		return notFound(err, "Stock item")
	}
	if err := repos.SalesOrders().Save(ctx, order); err != nil {
		return err
	}
	if err := repos.Invoices().Save(ctx, invoice); err != nil {
		return err
	}

	client, err := repos.Clients().FindByIDForUpdate(ctx, order.ClientID)
	if err != nil {
		return notFound(err, "Client")
	}
	if err := client.RecordSale(invoice.Amount); err != nil {
		return err
	}
	if err := repos.Clients().Save(ctx, client); err != nil {
		return err
	}

	events.Collect(order, invoice)
	events.Add(movement.Events()...)
	return nil
}

// Deliver records a partial or full shipment
func (s *SalesService) Deliver(ctx context.Context, orderID uuid.UUID, req DeliverSalesOrderRequest) (*DeliveryOutboundResponse, error) {
	date, err := parseDate(req.DateOfDelivery)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Date of delivery must be YYYY-MM-DD")
	}

	var events txscope.Events
	var response DeliveryOutboundResponse
	err = s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		order, err := repos.SalesOrders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return notFound(err, "Sales order")
		}
		previous, err := repos.OutboundDeliveries().FindBySalesOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		delivery, err := order.Deliver(previous, req.DeliveredQty, date)
		if err != nil {
			return err
		}
		if err := repos.OutboundDeliveries().Save(ctx, delivery); err != nil {
			return err
		}
		if err := repos.SalesOrders().Save(ctx, order); err != nil {
			return err
		}

		events.Collect(order)
		response = ToDeliveryOutboundResponse(delivery)
		response.OrderStatus = order.Status.String()
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.eventPublisher)
	return &response, nil
}

// Cancel closes an undelivered order and releases its reservation
func (s *SalesService) Cancel(ctx context.Context, orderID uuid.UUID) (*CancelSalesOrderResponse, error) {
	var events txscope.Events
	var response CancelSalesOrderResponse
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		order, err := repos.SalesOrders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return notFound(err, "Sales order")
		}
		release, err := order.Cancel()
		if err != nil {
			return err
		}
		if release > 0 {
			movement, err := repos.Ledger().Release(ctx, order.ItemID, release,
				inventory.Reference{Type: inventory.RefSalesOrder, ID: order.ID})
			if err != nil {
				return err
			}
			events.Add(movement.Events()...)
		}
		if err := repos.SalesOrders().Save(ctx, order); err != nil {
			return err
		}

		events.Collect(order)
		response = CancelSalesOrderResponse{
			ID:          order.ID,
			Status:      order.Status.String(),
			ReleasedQty: release,
			Message:     "Sales Order cancelled",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.eventPublisher)
	return &response, nil
}

// GetOrder retrieves a sales order with its delivered quantity
func (s *SalesService) GetOrder(ctx context.Context, orderID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.repos.SalesOrders().FindByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "Sales order")
	}
	deliveries, err := s.repos.OutboundDeliveries().FindBySalesOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	delivered := order.DeliveredQty(deliveries)
	response.DeliveredQty = &delivered
	return &response, nil
}

// ListOrders lists sales orders, newest first by default
func (s *SalesService) ListOrders(ctx context.Context, filter SalesOrderListFilter) ([]SalesOrderResponse, int64, error) {
	domainFilter := pageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	setFilter(domainFilter, "status", filter.Status)
	setFilter(domainFilter, "client_id", filter.ClientID)
	setFilter(domainFilter, "item_id", filter.ItemID)

	orders, err := s.repos.SalesOrders().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.SalesOrders().Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SalesOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToSalesOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// ListOrderDeliveries returns the shipments of an order
func (s *SalesService) ListOrderDeliveries(ctx context.Context, orderID uuid.UUID) ([]DeliveryOutboundResponse, error) {
	if _, err := s.repos.SalesOrders().FindByID(ctx, orderID); err != nil {
		return nil, notFound(err, "Sales order")
	}
	deliveries, err := s.repos.OutboundDeliveries().FindBySalesOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	responses := make([]DeliveryOutboundResponse, len(deliveries))
	for i := range deliveries {
		responses[i] = ToDeliveryOutboundResponse(&deliveries[i])
	}
	return responses, nil
}

// ============================================================================
// Invoices
// ============================================================================

// VoidInvoice cancels an unpaid invoice
func (s *SalesService) VoidInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.settleInvoice(ctx, invoiceID, func(_ txscope.Repositories, inv *trade.Invoice) error {
		return inv.Void()
	})
}

// PayInvoice marks a pending invoice paid and credits the client account
func (s *SalesService) PayInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.settleInvoice(ctx, invoiceID, func(repos txscope.Repositories, inv *trade.Invoice) error {
		if err := inv.MarkPaid(s.now().UTC()); err != nil {
			return err
		}
		client, err := repos.Clients().FindByIDForUpdate(ctx, inv.ClientID)
		if err != nil {
			return notFound(err, "Client")
		}
		if err := client.RecordPayment(inv.Amount); err != nil {
			return err
		}
		return repos.Clients().Save(ctx, client)
	})
}

func (s *SalesService) settleInvoice(ctx context.Context, invoiceID uuid.UUID, apply func(txscope.Repositories, *trade.Invoice) error) (*InvoiceResponse, error) {
	var events txscope.Events
	var invoice *trade.Invoice
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		var err error
		invoice, err = repos.Invoices().FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return notFound(err, "Invoice")
		}
		if err := apply(repos, invoice); err != nil {
			return err
		}
		if err := repos.Invoices().Save(ctx, invoice); err != nil {
			return err
		}
		events.Collect(invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.eventPublisher)
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetInvoice retrieves an invoice by ID
func (s *SalesService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.repos.Invoices().FindByID(ctx, invoiceID)
	if err != nil {
		return nil, notFound(err, "Invoice")
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ListInvoices lists invoices newest first
func (s *SalesService) ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := pageFilter(filter.Page, filter.PageSize, "", "")
	setFilter(domainFilter, "payment_status", filter.PaymentStatus)
	setFilter(domainFilter, "client_id", filter.ClientID)
	setFilter(domainFilter, "order_id", filter.OrderID)

	invoices, err := s.repos.Invoices().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Invoices().Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// ClientInvoices lists the invoices of one client, newest first
func (s *SalesService) ClientInvoices(ctx context.Context, clientID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if err := mustExist(ctx, s.repos.Clients().ExistsByID, clientID, "Client"); err != nil {
		return nil, 0, err
	}
	filter.ClientID = clientID.String()
	return s.ListInvoices(ctx, filter)
}

// OutstandingAmount sums the pending invoices of a client
func (s *SalesService) OutstandingAmount(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	filter := shared.DefaultFilter().
		With("client_id", clientID.String()).
		With("payment_status", string(trade.InvoiceStatusPending))
	filter.PageSize = 0
	invoices, err := s.repos.Invoices().FindAll(ctx, filter)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range invoices {
		total = total.Add(invoices[i].Amount)
	}
	return total, nil
}
