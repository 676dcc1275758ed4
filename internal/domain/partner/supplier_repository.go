package partner

import (
	"context"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierRepository persists suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	// FindByIDForUpdate loads the supplier under a row lock
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClientRepository persists clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	// FindByIDForUpdate loads the client under a row lock
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}
