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

var billFilterColumns = map[string]string{
	"status":            "payment_status",
	"supplier_id":       "supplier_id",
	"purchase_order_id": "purchase_order_id",
}

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill by ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a bill and locks its row
func (r *GormBillRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByPurchaseOrder returns the bill of a purchase order
func (r *GormBillRepository) FindByPurchaseOrder(ctx context.Context, poID uuid.UUID) (*trade.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).First(&model, "purchase_order_id = ?", poID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds bills matching the filter, newest first by default
func (r *GormBillRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Bill, error) {
	var rows []models.BillModel
	if err := r.db.WithContext(ctx).
		Scopes(listScope(filter, billFilterColumns, SettlementSortFields, "created_at")).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	bills := make([]trade.Bill, len(rows))
	for i := range rows {
		bills[i] = *rows[i].ToDomain()
	}
	return bills, nil
}

// Count counts bills matching the filter
func (r *GormBillRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BillModel{}).
		Scopes(whereScope(filter, billFilterColumns)).
		Count(&count).Error
	return count, err
}

// Save creates or updates a bill
func (r *GormBillRepository) Save(ctx context.Context, bill *trade.Bill) error {
	return translateError(r.db.WithContext(ctx).Save(models.BillModelFromDomain(bill)).Error)
}

// Ensure GormBillRepository implements BillRepository
var _ trade.BillRepository = (*GormBillRepository)(nil)
