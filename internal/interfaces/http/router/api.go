package router

import (
	inventoryapp "github.com/erp/supplychain/internal/application/inventory"
	partnerapp "github.com/erp/supplychain/internal/application/partner"
	tradeapp "github.com/erp/supplychain/internal/application/trade"
	"github.com/erp/supplychain/internal/interfaces/http/handler"
)

// Services are the application services the API exposes
type Services struct {
	StockItems  *inventoryapp.StockItemService
	Suppliers   *partnerapp.SupplierService
	Clients     *partnerapp.ClientService
	Procurement *tradeapp.ProcurementService
	Sales       *tradeapp.SalesService
}

// Handlers bundles the HTTP handlers served under the API base path
type Handlers struct {
	Inventory      *handler.InventoryHandler
	Suppliers      *handler.SupplierHandler
	Clients        *handler.ClientHandler
	PurchaseOrders *handler.PurchaseOrderHandler
	Bills          *handler.BillHandler
	Quotes         *handler.QuoteHandler
	SalesOrders    *handler.SalesOrderHandler
	Invoices       *handler.InvoiceHandler
}

// NewHandlers builds every API handler from the services
func NewHandlers(s Services) Handlers {
	return Handlers{
		Inventory:      handler.NewInventoryHandler(s.StockItems),
		Suppliers:      handler.NewSupplierHandler(s.Suppliers, s.Procurement),
		Clients:        handler.NewClientHandler(s.Clients, s.Sales),
		PurchaseOrders: handler.NewPurchaseOrderHandler(s.Procurement),
		Bills:          handler.NewBillHandler(s.Procurement),
		Quotes:         handler.NewQuoteHandler(s.Sales),
		SalesOrders:    handler.NewSalesOrderHandler(s.Sales),
		Invoices:       handler.NewInvoiceHandler(s.Sales),
	}
}

// Groups returns the route table of the API, one group per resource
func (h Handlers) Groups() []*DomainGroup {
	inventory := NewDomainGroup("inventory", "/inventory").
		POST("/items", h.Inventory.CreateItem).
		GET("/items", h.Inventory.ListItems).
		GET("/items/:id", h.Inventory.GetItem).
		PUT("/items/:id", h.Inventory.UpdateItem).
		POST("/items/:id/adjust", h.Inventory.AdjustStock).
		GET("/items/:id/movements", h.Inventory.ListMovements).
		GET("/alerts/low-stock", h.Inventory.LowStockAlerts)

	suppliers := NewDomainGroup("suppliers", "/suppliers").
		POST("", h.Suppliers.Create).
		GET("", h.Suppliers.List).
		GET("/:id", h.Suppliers.GetByID).
		PUT("/:id", h.Suppliers.Update).
		DELETE("/:id", h.Suppliers.Delete).
		GET("/:id/bills", h.Suppliers.Bills)

	clients := NewDomainGroup("clients", "/clients").
		POST("", h.Clients.Create).
		GET("", h.Clients.List).
		GET("/:id", h.Clients.GetByID).
		PUT("/:id", h.Clients.Update).
		DELETE("/:id", h.Clients.Delete).
		GET("/:id/invoices", h.Clients.Invoices).
		GET("/:id/outstanding", h.Clients.Outstanding)

	purchaseOrders := NewDomainGroup("purchase-orders", "/purchase-orders").
		POST("", h.PurchaseOrders.Create).
		GET("", h.PurchaseOrders.List).
		GET("/:id", h.PurchaseOrders.GetByID).
		POST("/:id/acknowledge", h.PurchaseOrders.Acknowledge).
		GET("/:id/acknowledgements", h.PurchaseOrders.ListAcknowledgements).
		POST("/:id/acknowledgements/:ackId/accept", h.PurchaseOrders.AcceptAcknowledgement).
		POST("/:id/acknowledgements/:ackId/reject", h.PurchaseOrders.RejectAcknowledgement).
		POST("/:id/receive", h.PurchaseOrders.Receive).
		GET("/:id/deliveries", h.PurchaseOrders.ListDeliveries)

	bills := NewDomainGroup("bills", "/bills").
		POST("", h.Bills.Create).
		GET("", h.Bills.List).
		GET("/:id", h.Bills.GetByID).
		POST("/:id/pay", h.Bills.Pay)

	quotes := NewDomainGroup("quotes", "/quotes").
		POST("", h.Quotes.Create).
		GET("", h.Quotes.List).
		GET("/:id", h.Quotes.GetByID).
		POST("/:id/revise", h.Quotes.Revise).
		POST("/:id/accept", h.Quotes.Accept).
		GET("/:id/history", h.Quotes.History)

	orders := NewDomainGroup("orders", "/orders").
		POST("", h.SalesOrders.Create).
		GET("", h.SalesOrders.List).
		GET("/:id", h.SalesOrders.GetByID).
		POST("/:id/deliver", h.SalesOrders.Deliver).
		POST("/:id/cancel", h.SalesOrders.Cancel).
		GET("/:id/deliveries", h.SalesOrders.ListDeliveries)

	invoices := NewDomainGroup("invoices", "/invoices").
		GET("", h.Invoices.List).
		GET("/:id", h.Invoices.GetByID).
		POST("/:id/void", h.Invoices.Void).
		POST("/:id/pay", h.Invoices.Pay)

	return []*DomainGroup{inventory, suppliers, clients, purchaseOrders, bills, quotes, orders, invoices}
}
