package models

// All returns every persistence model in dependency order
func All() []interface{} {
	return []interface{}{
		&StockItemModel{},
		&StockMovementModel{},
		&SupplierModel{},
		&ClientModel{},
		&PurchaseOrderModel{},
		&AcknowledgementModel{},
		&DeliveryInboundModel{},
		&BillModel{},
		&QuoteModel{},
		&SalesOrderModel{},
		&DeliveryOutboundModel{},
		&InvoiceModel{},
	}
}
