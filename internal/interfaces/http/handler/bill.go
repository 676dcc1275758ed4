package handler

import (
	tradeapp "github.com/erp/supplychain/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// BillHandler handles supplier bills
type BillHandler struct {
	BaseHandler
	procurementService *tradeapp.ProcurementService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(procurementService *tradeapp.ProcurementService) *BillHandler {
	return &BillHandler{procurementService: procurementService}
}

// Create godoc
// @ID           createBill
// @Summary      Bill a received purchase order
// @Description  One bill per purchase order. The amount is the ordered quantity times the final acknowledged price
// @Description  and is added to the supplier balance.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replay key"
// @Param        request body tradeapp.CreateBillRequest true "Bill"
// @Success      201 {object} APIResponse[tradeapp.BillResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req tradeapp.CreateBillRequest
	if !h.bindJSON(c, &req) {
		return
	}

	bill, err := h.procurementService.CreateBill(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, bill)
}

// List godoc
// @ID           listBills
// @Summary      List bills
// @Tags         bills
// @Produce      json
// @Param        payment_status query string false "Payment status" Enums(pending, paid)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        po_id query string false "Purchase order ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} APIResponse[[]tradeapp.BillResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	var filter tradeapp.BillListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	bills, total, err := h.procurementService.ListBills(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, bills, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getBill
// @Summary      Get a bill
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.BillResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /bills/{id} [get]
func (h *BillHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	bill, err := h.procurementService.GetBill(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bill)
}

// Pay godoc
// @ID           payBill
// @Summary      Pay a bill
// @Description  Settles the bill and deducts its amount from the supplier balance
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay key"
// @Param        request body tradeapp.PayBillRequest true "Payment"
// @Success      200 {object} APIResponse[tradeapp.BillPaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /bills/{id}/pay [post]
func (h *BillHandler) Pay(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.PayBillRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.procurementService.PayBill(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}
