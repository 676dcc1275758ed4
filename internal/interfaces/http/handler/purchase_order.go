package handler

import (
	tradeapp "github.com/erp/supplychain/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler handles purchase orders and their negotiation
type PurchaseOrderHandler struct {
	BaseHandler
	procurementService *tradeapp.ProcurementService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(procurementService *tradeapp.ProcurementService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{procurementService: procurementService}
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Create a purchase order
// @Description  Opens a purchase order in pending_price_negotiation
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replay key"
// @Param        request body tradeapp.CreatePurchaseOrderRequest true "Purchase order"
// @Success      201 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	po, err := h.procurementService.CreatePurchaseOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, po)
}

// List godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        status query string false "Status" Enums(pending_price_negotiation, acknowledged, received)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        item_id query string false "Item ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} APIResponse[[]tradeapp.PurchaseOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter tradeapp.PurchaseOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.procurementService.ListPurchaseOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getPurchaseOrder
// @Summary      Get a purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	po, err := h.procurementService.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, po)
}

// Acknowledge godoc
// @ID           acknowledgePurchaseOrder
// @Summary      Record a supplier acknowledgement
// @Description  Adds the next acknowledgement version. "accepted" fixes the price and moves the order to acknowledged;
// @Description  "rejected" and "revised" keep the negotiation open. A price is required unless the action is rejected.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay key"
// @Param        request body tradeapp.AcknowledgePurchaseOrderRequest true "Acknowledgement"
// @Success      201 {object} APIResponse[tradeapp.AcknowledgementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /purchase-orders/{id}/acknowledge [post]
func (h *PurchaseOrderHandler) Acknowledge(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.AcknowledgePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ack, err := h.procurementService.Acknowledge(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, ack)
}

// ListAcknowledgements godoc
// @ID           listPurchaseOrderAcknowledgements
// @Summary      Acknowledgement history
// @Description  All acknowledgement versions of a purchase order, oldest first
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[[]tradeapp.AcknowledgementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /purchase-orders/{id}/acknowledgements [get]
func (h *PurchaseOrderHandler) ListAcknowledgements(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	acks, err := h.procurementService.ListAcknowledgements(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, acks)
}

// AcceptAcknowledgement godoc
// @ID           acceptPurchaseOrderAcknowledgement
// @Summary      Accept an acknowledgement
// @Description  Makes the acknowledgement final and supersedes the other open versions
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        ackId path string true "Acknowledgement ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.AcknowledgementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /purchase-orders/{id}/acknowledgements/{ackId}/accept [post]
func (h *PurchaseOrderHandler) AcceptAcknowledgement(c *gin.Context) {
	poID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	ackID, ok := h.parseID(c, "ackId")
	if !ok {
		return
	}

	ack, err := h.procurementService.AcceptAcknowledgement(c.Request.Context(), poID, ackID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ack)
}

// RejectAcknowledgement godoc
// @ID           rejectPurchaseOrderAcknowledgement
// @Summary      Reject an acknowledgement
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        ackId path string true "Acknowledgement ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.AcknowledgementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /purchase-orders/{id}/acknowledgements/{ackId}/reject [post]
func (h *PurchaseOrderHandler) RejectAcknowledgement(c *gin.Context) {
	poID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	ackID, ok := h.parseID(c, "ackId")
	if !ok {
		return
	}

	ack, err := h.procurementService.RejectAcknowledgement(c.Request.Context(), poID, ackID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ack)
}

// Receive godoc
// @ID           receivePurchaseOrder
// @Summary      Receive the goods of a purchase order
// @Description  Requires a final acknowledgement. Adds the ordered quantity to stock and closes the inbound delivery.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay key"
// @Param        request body tradeapp.ReceivePurchaseOrderRequest true "Receipt"
// @Success      200 {object} APIResponse[tradeapp.ReceivePurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.ReceivePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.procurementService.Receive(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ListDeliveries godoc
// @ID           listPurchaseOrderDeliveries
// @Summary      Inbound deliveries of a purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[[]tradeapp.DeliveryInboundResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /purchase-orders/{id}/deliveries [get]
func (h *PurchaseOrderHandler) ListDeliveries(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	deliveries, err := h.procurementService.ListDeliveries(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, deliveries)
}
