package handler

import (
	partnerapp "github.com/erp/supplychain/internal/application/partner"
	tradeapp "github.com/erp/supplychain/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	BaseHandler
	clientService *partnerapp.ClientService
	salesService  *tradeapp.SalesService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *partnerapp.ClientService, salesService *tradeapp.SalesService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		salesService:  salesService,
	}
}

// OutstandingResponse is the sum of a client's pending invoices
type OutstandingResponse struct {
	ClientID          uuid.UUID       `json:"client_id"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount" swaggertype:"string" example:"1250.00"`
}

// Create godoc
// @ID           createClient
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateClientRequest true "Client"
// @Success      201 {object} APIResponse[partnerapp.ClientResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req partnerapp.CreateClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, client)
}

// List godoc
// @ID           listClients
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Param        name query string false "Name contains"
// @Param        email query string false "Email contains"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} APIResponse[[]partnerapp.ClientResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	var filter partnerapp.PartnerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	clients, total, err := h.clientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, clients, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getClient
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.ClientResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, client)
}

// Update godoc
// @ID           updateClient
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        request body partnerapp.UpdateClientRequest true "Client"
// @Success      200 {object} APIResponse[partnerapp.ClientResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, client)
}

// Delete godoc
// @ID           deleteClient
// @Summary      Delete a client
// @Description  Only clients without sales orders can be deleted
// @Tags         clients
// @Param        id path string true "Client ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Invoices godoc
// @ID           listClientInvoices
// @Summary      Invoices of a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        payment_status query string false "Payment status" Enums(pending, voided, paid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} APIResponse[[]tradeapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /clients/{id}/invoices [get]
func (h *ClientHandler) Invoices(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var filter tradeapp.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.salesService.ClientInvoices(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Outstanding godoc
// @ID           getClientOutstanding
// @Summary      Outstanding amount of a client
// @Description  Sums the client's pending invoices
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[OutstandingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /clients/{id}/outstanding [get]
func (h *ClientHandler) Outstanding(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.clientService.GetByID(ctx, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	amount, err := h.salesService.OutstandingAmount(ctx, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, OutstandingResponse{ClientID: id, OutstandingAmount: amount})
}
