package handler

import (
	tradeapp "github.com/erp/supplychain/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles client invoices
type InvoiceHandler struct {
	BaseHandler
	salesService *tradeapp.SalesService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(salesService *tradeapp.SalesService) *InvoiceHandler {
	return &InvoiceHandler{salesService: salesService}
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        payment_status query string false "Payment status" Enums(pending, voided, paid)
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        so_id query string false "Sales order ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} APIResponse[[]tradeapp.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter tradeapp.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.salesService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.salesService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Void godoc
// @ID           voidInvoice
// @Summary      Void an invoice
// @Description  Paid invoices cannot be voided
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay key"
// @Success      200 {object} APIResponse[tradeapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /invoices/{id}/void [post]
func (h *InvoiceHandler) Void(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.salesService.VoidInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Pay godoc
// @ID           payInvoice
// @Summary      Mark an invoice paid
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay key"
// @Success      200 {object} APIResponse[tradeapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /invoices/{id}/pay [post]
func (h *InvoiceHandler) Pay(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.salesService.PayInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}
