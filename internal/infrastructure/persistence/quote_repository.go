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

var quoteFilterColumns = map[string]string{
	"status":    "status",
	"client_id": "client_id",
	"item_id":   "item_id",
}

// GormQuoteRepository implements QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a quote and locks its row
func (r *GormQuoteRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindChain returns every version of a quote chain, locked, oldest first
func (r *GormQuoteRepository) FindChain(ctx context.Context, chainID uuid.UUID) ([]*trade.Quote, error) {
	var rows []models.QuoteModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("chain_id = ?", chainID).
		Order("version ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return quotesFromRows(rows), nil
}

// FindOpenByClientAndItem returns the sent or revised quotes a client holds
// for an item, locked
func (r *GormQuoteRepository) FindOpenByClientAndItem(ctx context.Context, clientID, itemID uuid.UUID) ([]*trade.Quote, error) {
	var rows []models.QuoteModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("client_id = ? AND item_id = ? AND status IN ?", clientID, itemID,
			[]trade.QuoteStatus{trade.QuoteStatusSent, trade.QuoteStatusRevised}).
		Order("created_at ASC").
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return quotesFromRows(rows), nil
}

// FindAll finds quotes matching the filter
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Quote, error) {
	var rows []models.QuoteModel
	if err := r.db.WithContext(ctx).
		Scopes(listScope(filter, quoteFilterColumns, QuoteSortFields, "created_at")).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	quotes := make([]trade.Quote, len(rows))
	for i := range rows {
		quotes[i] = *rows[i].ToDomain()
	}
	return quotes, nil
}

// Count counts quotes matching the filter
func (r *GormQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.QuoteModel{}).
		Scopes(whereScope(filter, quoteFilterColumns)).
		Count(&count).Error
	return count, err
}

// SaveAll upserts the given quotes
func (r *GormQuoteRepository) SaveAll(ctx context.Context, quotes ...*trade.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	rows := make([]*models.QuoteModel, len(quotes))
	for i, q := range quotes {
		rows[i] = models.QuoteModelFromDomain(q)
	}
	return translateError(r.db.WithContext(ctx).Clauses(upsertByID).Create(&rows).Error)
}

func quotesFromRows(rows []models.QuoteModel) []*trade.Quote {
	out := make([]*trade.Quote, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// Ensure GormQuoteRepository implements QuoteRepository
var _ trade.QuoteRepository = (*GormQuoteRepository)(nil)
