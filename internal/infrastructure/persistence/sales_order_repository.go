package persistence

import (
	"context"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/domain/trade"
	"github.com/erp/supplychain/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var salesOrderFilterColumns = map[string]string{
	"status":    "status",
	"client_id": "client_id",
	"item_id":   "item_id",
}

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order by its ID
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a sales order and locks its row
func (r *GormSalesOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds sales orders matching the filter
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	var rows []models.SalesOrderModel
	if err := r.db.WithContext(ctx).
		Scopes(listScope(filter, salesOrderFilterColumns, OrderSortFields, "created_at")).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.SalesOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts sales orders matching the filter
func (r *GormSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).
		Scopes(whereScope(filter, salesOrderFilterColumns)).
		Count(&count).Error
	return count, err
}

// CountByClient counts the sales orders of a client
func (r *GormSalesOrderRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count, err
}

// Save creates or updates a sales order
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	return translateError(r.db.WithContext(ctx).Save(models.SalesOrderModelFromDomain(order)).Error)
}

// GormDeliveryOutboundRepository implements DeliveryOutboundRepository using GORM
type GormDeliveryOutboundRepository struct {
	db *gorm.DB
}

// NewGormDeliveryOutboundRepository creates a new GormDeliveryOutboundRepository
func NewGormDeliveryOutboundRepository(db *gorm.DB) *GormDeliveryOutboundRepository {
	return &GormDeliveryOutboundRepository{db: db}
}

// FindBySalesOrder returns the deliveries made against an order, oldest first
func (r *GormDeliveryOutboundRepository) FindBySalesOrder(ctx context.Context, orderID uuid.UUID) ([]trade.DeliveryOutbound, error) {
	var rows []models.DeliveryOutboundModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("date_of_delivery ASC").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]trade.DeliveryOutbound, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save inserts an outbound delivery
func (r *GormDeliveryOutboundRepository) Save(ctx context.Context, delivery *trade.DeliveryOutbound) error {
	return translateError(r.db.WithContext(ctx).Save(models.DeliveryOutboundModelFromDomain(delivery)).Error)
}

// Ensure interfaces are implemented
var (
	_ trade.SalesOrderRepository       = (*GormSalesOrderRepository)(nil)
	_ trade.DeliveryOutboundRepository = (*GormDeliveryOutboundRepository)(nil)
)
