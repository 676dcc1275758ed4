package handler

import (
	tradeapp "github.com/erp/supplychain/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SalesOrderHandler handles sales orders and their deliveries
type SalesOrderHandler struct {
	BaseHandler
	salesService *tradeapp.SalesService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(salesService *tradeapp.SalesService) *SalesOrderHandler {
	return &SalesOrderHandler{salesService: salesService}
}

// Create godoc
// @ID           createSalesOrder
// @Summary      Place a direct order
// @Description  Confirms an order without a quote: stock is reserved and an invoice raised
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replay key"
// @Param        request body tradeapp.CreateSalesOrderRequest true "Order"
// @Success      201 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /orders [post]
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSalesOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.salesService.CreateDirectOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// List godoc
// @ID           listSalesOrders
// @Summary      List sales orders
// @Tags         orders
// @Produce      json
// @Param        status query string false "Status" Enums(pending_price_negotiation, confirmed, partially_delivered, delivered, cancelled)
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        item_id query string false "Item ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} APIResponse[[]tradeapp.SalesOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /orders [get]
func (h *SalesOrderHandler) List(c *gin.Context) {
	var filter tradeapp.SalesOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.salesService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getSalesOrder
// @Summary      Get a sales order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.salesService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Deliver godoc
// @ID           deliverSalesOrder
// @Summary      Ship against an order
// @Description  Records a shipment. Cumulative deliveries may not exceed the ordered quantity.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay key"
// @Param        request body tradeapp.DeliverSalesOrderRequest true "Shipment"
// @Success      201 {object} APIResponse[tradeapp.DeliveryOutboundResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /orders/{id}/deliver [post]
func (h *SalesOrderHandler) Deliver(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.DeliverSalesOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	delivery, err := h.salesService.Deliver(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, delivery)
}

// Cancel godoc
// @ID           cancelSalesOrder
// @Summary      Cancel an order
// @Description  Releases the reserved stock. Orders with deliveries cannot be cancelled.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay key"
// @Success      200 {object} APIResponse[tradeapp.CancelSalesOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /orders/{id}/cancel [post]
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.salesService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ListDeliveries godoc
// @ID           listSalesOrderDeliveries
// @Summary      Shipments of an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[[]tradeapp.DeliveryOutboundResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /orders/{id}/deliveries [get]
func (h *SalesOrderHandler) ListDeliveries(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	deliveries, err := h.salesService.ListOrderDeliveries(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, deliveries)
}
