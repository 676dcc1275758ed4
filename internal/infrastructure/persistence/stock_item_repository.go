package persistence

import (
	"context"

	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var stockItemFilterColumns = map[string]string{
	"name": "~name",
}

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByID finds a stock item by its ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a stock item and locks its row
func (r *GormStockItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all stock items matching the filter
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, error) {
	var rows []models.StockItemModel
	if err := r.db.WithContext(ctx).
		Scopes(listScope(filter, stockItemFilterColumns, StockItemSortFields, "name")).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]inventory.StockItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// Count counts stock items matching the filter
func (r *GormStockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockItemModel{}).
		Scopes(whereScope(filter, stockItemFilterColumns)).
		Count(&count).Error
	return count, err
}

// FindBelowSafetyStock finds items whose quantity is under their safety stock
func (r *GormStockItemRepository) FindBelowSafetyStock(ctx context.Context) ([]inventory.StockItem, error) {
	var rows []models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("quantity < safety_stock").
		Order("name").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]inventory.StockItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// ExistsByID checks if a stock item exists
func (r *GormStockItemRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StockItemModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new stock item with its opening quantity
func (r *GormStockItemRepository) Create(ctx context.Context, item *inventory.StockItem) error {
	return translateError(r.db.WithContext(ctx).Create(models.StockItemModelFromDomain(item)).Error)
}

// Update writes the descriptive fields of a stock item. Quantity is owned by
// the ledger and is never written here; the version is bumped in SQL so a
// ledger movement committed since the item was read is not rolled back.
func (r *GormStockItemRepository) Update(ctx context.Context, item *inventory.StockItem) error {
	result := r.db.WithContext(ctx).
		Model(&models.StockItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":         item.Name,
			"unit_rate":    item.UnitRate,
			"safety_stock": item.SafetyStock,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   item.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormStockMovementRepository reads the stock ledger
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByStockItem returns the movements of an item, newest first
func (r *GormStockMovementRepository) FindByStockItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var rows []models.StockMovementModel
	query := r.db.WithContext(ctx).
		Where("stock_item_id = ?", itemID).
		Order("created_at DESC").
		Order("id")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.StockMovement, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountByStockItem counts the movements of an item
func (r *GormStockMovementRepository) CountByStockItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockMovementModel{}).
		Where("stock_item_id = ?", itemID).
		Count(&count).Error
	return count, err
}

// Ensure interfaces are implemented
var (
	_ inventory.StockItemRepository     = (*GormStockItemRepository)(nil)
	_ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
)
