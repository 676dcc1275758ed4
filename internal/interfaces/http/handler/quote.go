package handler

import (
	tradeapp "github.com/erp/supplychain/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// QuoteHandler handles client quotes
type QuoteHandler struct {
	BaseHandler
	salesService *tradeapp.SalesService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(salesService *tradeapp.SalesService) *QuoteHandler {
	return &QuoteHandler{salesService: salesService}
}

// Create godoc
// @ID           createQuote
// @Summary      Send a quote
// @Description  Opens a new quote chain at version 1 with status sent
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replay key"
// @Param        request body tradeapp.CreateQuoteRequest true "Quote"
// @Success      201 {object} APIResponse[tradeapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req tradeapp.CreateQuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.salesService.CreateQuote(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, quote)
}

// List godoc
// @ID           listQuotes
// @Summary      List quotes
// @Tags         quotes
// @Produce      json
// @Param        status query string false "Status" Enums(sent, revised, accepted, superseded)
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        item_id query string false "Item ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} APIResponse[[]tradeapp.QuoteResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	var filter tradeapp.QuoteListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	quotes, total, err := h.salesService.ListQuotes(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, quotes, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getQuote
// @Summary      Get a quote
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	quote, err := h.salesService.GetQuote(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}

// Revise godoc
// @ID           reviseQuote
// @Summary      Revise a quote
// @Description  Supersedes the quote with a new version at the proposed price
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay key"
// @Param        request body tradeapp.ReviseQuoteRequest true "New price"
// @Success      201 {object} APIResponse[tradeapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /quotes/{id}/revise [post]
func (h *QuoteHandler) Revise(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.ReviseQuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.salesService.ReviseQuote(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, quote)
}

// Accept godoc
// @ID           acceptQuote
// @Summary      Accept a quote
// @Description  Reserves the stock, confirms a sales order and raises its invoice. Other open quotes of the same
// @Description  client and item are superseded.
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay key"
// @Success      201 {object} APIResponse[tradeapp.AcceptQuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /quotes/{id}/accept [post]
func (h *QuoteHandler) Accept(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.salesService.AcceptQuote(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// History godoc
// @ID           getQuoteHistory
// @Summary      Quote revision history
// @Description  Every version in the quote's chain, oldest first
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      200 {object} APIResponse[[]tradeapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /quotes/{id}/history [get]
func (h *QuoteHandler) History(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	history, err := h.salesService.QuoteHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, history)
}
