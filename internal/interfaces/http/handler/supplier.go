package handler

import (
	partnerapp "github.com/erp/supplychain/internal/application/partner"
	tradeapp "github.com/erp/supplychain/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SupplierHandler handles supplier endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService    *partnerapp.SupplierService
	procurementService *tradeapp.ProcurementService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService, procurementService *tradeapp.ProcurementService) *SupplierHandler {
	return &SupplierHandler{
		supplierService:    supplierService,
		procurementService: procurementService,
	}
}

// Create godoc
// @ID           createSupplier
// @Summary      Create a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateSupplierRequest true "Supplier"
// @Success      201 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req partnerapp.CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, supplier)
}

// List godoc
// @ID           listSuppliers
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Param        name query string false "Name contains"
// @Param        email query string false "Email contains"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} APIResponse[[]partnerapp.SupplierResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	var filter partnerapp.PartnerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	suppliers, total, err := h.supplierService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, suppliers, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getSupplier
// @Summary      Get a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	supplier, err := h.supplierService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Update godoc
// @ID           updateSupplier
// @Summary      Update a supplier
// @Description  Replaces the contact details and discount. The account balance is not editable.
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.UpdateSupplierRequest true "Supplier"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Delete godoc
// @ID           deleteSupplier
// @Summary      Delete a supplier
// @Description  Only suppliers without purchase orders can be deleted
// @Tags         suppliers
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.supplierService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Bills godoc
// @ID           listSupplierBills
// @Summary      Bills of a supplier
// @Description  Lists the bills raised against a supplier, newest first
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        payment_status query string false "Payment status" Enums(pending, paid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} APIResponse[[]tradeapp.BillResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id}/bills [get]
func (h *SupplierHandler) Bills(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var filter tradeapp.BillListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	bills, total, err := h.procurementService.SupplierBills(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, bills, total, filter.Page, filter.PageSize)
}
