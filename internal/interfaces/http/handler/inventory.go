package handler

import (
	inventoryapp "github.com/erp/supplychain/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles stock item and ledger endpoints
type InventoryHandler struct {
	BaseHandler
	stockItemService *inventoryapp.StockItemService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockItemService *inventoryapp.StockItemService) *InventoryHandler {
	return &InventoryHandler{stockItemService: stockItemService}
}

// CreateItem godoc
// @ID           createInventoryItem
// @Summary      Register a stock item
// @Description  Creates a stock item with its opening quantity, rate and safety stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateStockItemRequest true "Stock item"
// @Success      201 {object} APIResponse[inventoryapp.StockItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/items [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req inventoryapp.CreateStockItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.stockItemService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, item)
}

// ListItems godoc
// @ID           listInventoryItems
// @Summary      List stock items
// @Description  Lists stock items with safety stock indicators and inbound/outbound flags
// @Tags         inventory
// @Produce      json
// @Param        name query string false "Name contains"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]inventoryapp.StockItemListResponse]
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/items [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var filter inventoryapp.StockItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.stockItemService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetItem godoc
// @ID           getInventoryItem
// @Summary      Get a stock item
// @Description  Returns a stock item with its reorder suggestion
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.StockItemDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.stockItemService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// UpdateItem godoc
// @ID           updateInventoryItem
// @Summary      Update a stock item
// @Description  Changes name, rate or safety stock. Quantity only moves through adjustments.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body inventoryapp.UpdateStockItemRequest true "Fields to change"
// @Success      200 {object} APIResponse[inventoryapp.StockItemDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /inventory/items/{id} [put]
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateStockItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.stockItemService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// AdjustStock godoc
// @ID           adjustInventoryItem
// @Summary      Adjust stock manually
// @Description  Increases or decreases the quantity on hand. A decrease below zero is rejected with NEGATIVE_STOCK.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay key"
// @Param        request body inventoryapp.AdjustStockRequest true "Adjustment"
// @Success      200 {object} APIResponse[inventoryapp.AdjustStockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /inventory/items/{id}/adjust [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.stockItemService.Adjust(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ListMovements godoc
// @ID           listInventoryMovements
// @Summary      Stock ledger history
// @Description  Lists the ledger entries of an item, newest first
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} APIResponse[[]inventoryapp.StockMovementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /inventory/items/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var filter inventoryapp.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	movements, total, err := h.stockItemService.Movements(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// LowStockAlerts godoc
// @ID           listLowStockAlerts
// @Summary      Low stock report
// @Description  Items below their safety stock, most urgent first
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]inventoryapp.LowStockAlertResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/alerts/low-stock [get]
func (h *InventoryHandler) LowStockAlerts(c *gin.Context) {
	alerts, err := h.stockItemService.LowStockAlerts(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, alerts)
}
