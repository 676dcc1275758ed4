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

var purchaseOrderFilterColumns = map[string]string{
	"status":      "status",
	"supplier_id": "supplier_id",
	"item_id":     "item_id",
}

// upsertByID inserts new rows and overwrites existing ones in one statement
var upsertByID = clause.OnConflict{
	Columns:   []clause.Column{{Name: "id"}},
	UpdateAll: true,
}

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a purchase order and locks its row
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	var rows []models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Scopes(listScope(filter, purchaseOrderFilterColumns, OrderSortFields, "created_at")).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.PurchaseOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts purchase orders matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Scopes(whereScope(filter, purchaseOrderFilterColumns)).
		Count(&count).Error
	return count, err
}

// CountBySupplier counts the purchase orders placed with a supplier
func (r *GormPurchaseOrderRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}

// Save creates or updates a purchase order
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return translateError(r.db.WithContext(ctx).Save(models.PurchaseOrderModelFromDomain(order)).Error)
}

// GormAcknowledgementRepository implements AcknowledgementRepository using GORM
type GormAcknowledgementRepository struct {
	db *gorm.DB
}

// NewGormAcknowledgementRepository creates a new GormAcknowledgementRepository
func NewGormAcknowledgementRepository(db *gorm.DB) *GormAcknowledgementRepository {
	return &GormAcknowledgementRepository{db: db}
}

// FindByPurchaseOrder returns the acknowledgements of an order by version
func (r *GormAcknowledgementRepository) FindByPurchaseOrder(ctx context.Context, poID uuid.UUID) ([]*trade.Acknowledgement, error) {
	var rows []models.AcknowledgementModel
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", poID).
		Order("version ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	acks := make([]*trade.Acknowledgement, len(rows))
	for i := range rows {
		acks[i] = rows[i].ToDomain()
	}
	return acks, nil
}

// FindByID finds an acknowledgement by ID
func (r *GormAcknowledgementRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Acknowledgement, error) {
	var model models.AcknowledgementModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindFinal returns the final acknowledgement of an order
func (r *GormAcknowledgementRepository) FindFinal(ctx context.Context, poID uuid.UUID) (*trade.Acknowledgement, error) {
	var model models.AcknowledgementModel
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ? AND is_final = ?", poID, true).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// SaveAll upserts the given acknowledgements
func (r *GormAcknowledgementRepository) SaveAll(ctx context.Context, acks ...*trade.Acknowledgement) error {
	if len(acks) == 0 {
		return nil
	}
	rows := make([]*models.AcknowledgementModel, len(acks))
	for i, a := range acks {
		rows[i] = models.AcknowledgementModelFromDomain(a)
	}
	return translateError(r.db.WithContext(ctx).Clauses(upsertByID).Create(&rows).Error)
}

// GormDeliveryInboundRepository implements DeliveryInboundRepository using GORM
type GormDeliveryInboundRepository struct {
	db *gorm.DB
}

// NewGormDeliveryInboundRepository creates a new GormDeliveryInboundRepository
func NewGormDeliveryInboundRepository(db *gorm.DB) *GormDeliveryInboundRepository {
	return &GormDeliveryInboundRepository{db: db}
}

// FindByPurchaseOrder returns the inbound deliveries of an order, oldest first
func (r *GormDeliveryInboundRepository) FindByPurchaseOrder(ctx context.Context, poID uuid.UUID) ([]*trade.DeliveryInbound, error) {
	var rows []models.DeliveryInboundModel
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", poID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*trade.DeliveryInbound, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates an inbound delivery
func (r *GormDeliveryInboundRepository) Save(ctx context.Context, delivery *trade.DeliveryInbound) error {
	return translateError(r.db.WithContext(ctx).Save(models.DeliveryInboundModelFromDomain(delivery)).Error)
}

// Ensure interfaces are implemented
var (
	_ trade.PurchaseOrderRepository   = (*GormPurchaseOrderRepository)(nil)
	_ trade.AcknowledgementRepository = (*GormAcknowledgementRepository)(nil)
	_ trade.DeliveryInboundRepository = (*GormDeliveryInboundRepository)(nil)
)
