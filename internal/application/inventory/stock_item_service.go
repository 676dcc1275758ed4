package inventory

import (
	"context"
	"strings"

	"github.com/erp/supplychain/internal/application/txscope"
	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/domain/trade"
	"github.com/google/uuid"
)

// ItemFlow tells whether goods are on their way in or out for an item
type ItemFlow struct {
	Inbound  bool
	Outbound bool
}

// StockItemService handles stock items and their ledger
type StockItemService struct {
	repos          txscope.Repositories
	scope          txscope.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewStockItemService creates a new StockItemService
func NewStockItemService(repos txscope.Repositories, scope txscope.TransactionScope) *StockItemService {
	return &StockItemService{
		repos: repos,
		scope: scope,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *StockItemService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a stock item with its opening quantity
func (s *StockItemService) Create(ctx context.Context, req CreateStockItemRequest) (*StockItemResponse, error) {
	item, err := inventory.NewStockItem(req.ItemName, req.ItemQty, req.Rate, req.SafetyStock)
	if err != nil {
		return nil, err
	}
	if err := s.repos.StockItems().Create(ctx, item); err != nil {
		return nil, err
	}

	var events txscope.Events
	events.Add(inventory.NewStockItemCreatedEvent(item))
	events.Publish(ctx, s.eventPublisher)

	response := ToStockItemResponse(item)
	return &response, nil
}

// GetByID returns the detail view of a stock item
func (s *StockItemService) GetByID(ctx context.Context, itemID uuid.UUID) (*StockItemDetailResponse, error) {
	item, err := s.repos.StockItems().FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	flow, err := s.flow(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	response := ToStockItemDetailResponse(item, flow)
	return &response, nil
}

// List returns stock items with their derived stock levels
func (s *StockItemService) List(ctx context.Context, filter StockItemListFilter) ([]StockItemListResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if filter.OrderDir == "" {
		domainFilter.OrderDir = "asc"
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		domainFilter.Filters["name"] = name
	}

	items, err := s.repos.StockItems().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.StockItems().Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]StockItemListResponse, len(items))
	for i := range items {
		flow, err := s.flow(ctx, items[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out[i] = ToStockItemListResponse(&items[i], flow)
	}
	return out, total, nil
}

// Update changes the descriptive fields of a stock item
func (s *StockItemService) Update(ctx context.Context, itemID uuid.UUID, req UpdateStockItemRequest) (*StockItemDetailResponse, error) {
	var item *inventory.StockItem
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		var err error
		item, err = repos.StockItems().FindByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		name, rate, safetyStock := item.Name, item.UnitRate, item.SafetyStock
		if req.ItemName != nil {
			name = *req.ItemName
		}
		if req.Rate != nil {
			rate = *req.Rate
		}
		if req.SafetyStock != nil {
			safetyStock = *req.SafetyStock
		}
		if err := item.UpdateDetails(name, rate, safetyStock); err != nil {
			return err
		}
		return repos.StockItems().Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	flow, err := s.flow(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	response := ToStockItemDetailResponse(item, flow)
	return &response, nil
}

// Adjust applies a manual increase or decrease through the ledger
func (s *StockItemService) Adjust(ctx context.Context, itemID uuid.UUID, req AdjustStockRequest) (*AdjustStockResponse, error) {
	adj := inventory.AdjustmentType(strings.ToLower(strings.TrimSpace(req.AdjustmentType)))
	reason := strings.TrimSpace(req.Reason)
	if len(reason) < 3 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Reason must be at least 3 characters")
	}

	var movement *inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		var err error
		movement, err = repos.Ledger().Adjust(ctx, itemID, adj, req.Quantity, reason, strings.TrimSpace(req.Note))
		return err
	})
	if err != nil {
		return nil, err
	}

	var events txscope.Events
	events.Add(movement.Events()...)
	events.Publish(ctx, s.eventPublisher)

	return &AdjustStockResponse{
		ItemID:     itemID,
		NewItemQty: movement.QuantityAfter,
		Message:    adjustmentMessage(adj, req.Quantity, reason),
	}, nil
}

// LowStockAlerts lists items under their safety stock, most urgent first
func (s *StockItemService) LowStockAlerts(ctx context.Context) ([]LowStockAlertResponse, error) {
	items, err := s.repos.StockItems().FindBelowSafetyStock(ctx)
	if err != nil {
		return nil, err
	}
	return ToLowStockAlertResponses(inventory.BuildLowStockAlerts(items)), nil
}

// Movements returns the ledger history of an item, newest first
func (s *StockItemService) Movements(ctx context.Context, itemID uuid.UUID, filter MovementListFilter) ([]StockMovementResponse, int64, error) {
	exists, err := s.repos.StockItems().ExistsByID(ctx, itemID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, shared.NewNotFoundError("Stock item")
	}

	domainFilter := listFilter(filter.Page, filter.PageSize, "", "")
	movements, err := s.repos.StockMovements().FindByStockItem(ctx, itemID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.StockMovements().CountByStockItem(ctx, itemID)
	if err != nil {
		return nil, 0, err
	}

	out := make([]StockMovementResponse, len(movements))
	for i := range movements {
		out[i] = ToStockMovementResponse(&movements[i])
	}
	return out, total, nil
}

// flow checks for acknowledged purchase orders and open sales orders on the item
func (s *StockItemService) flow(ctx context.Context, itemID uuid.UUID) (ItemFlow, error) {
	inbound, err := s.repos.PurchaseOrders().Count(ctx, shared.DefaultFilter().
		With("item_id", itemID).
		With("status", string(trade.PurchaseOrderStatusAcknowledged)))
	if err != nil {
		return ItemFlow{}, err
	}
	outbound, err := s.repos.SalesOrders().Count(ctx, shared.DefaultFilter().
		With("item_id", itemID).
		With("status", []string{
			string(trade.SalesOrderStatusConfirmed),
			string(trade.SalesOrderStatusPartiallyDelivered),
		}))
	if err != nil {
		return ItemFlow{}, err
	}
	return ItemFlow{Inbound: inbound > 0, Outbound: outbound > 0}, nil
}

func listFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	f.OrderBy = orderBy
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	return f
}
