package partner

import (
	"context"
	"strings"

	"github.com/erp/supplychain/internal/application/txscope"
	"github.com/erp/supplychain/internal/domain/partner"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	repos txscope.Repositories
	scope txscope.TransactionScope
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(repos txscope.Repositories, scope txscope.TransactionScope) *SupplierService {
	return &SupplierService{
		repos: repos,
		scope: scope,
	}
}

// Create creates a new supplier with a zero balance
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(contactOf(req.Name, req.Contact, req.Email, req.Address), req.DiscountOffered)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Suppliers().Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.repos.Suppliers().FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves a list of suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter PartnerListFilter) ([]SupplierResponse, int64, error) {
	domainFilter := partnerFilter(filter)

	suppliers, err := s.repos.Suppliers().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Suppliers().Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses, total, nil
}

// Update replaces the contact details and discount of a supplier.
// The account balance only changes through bills and payments.
func (s *SupplierService) Update(ctx context.Context, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	var supplier *partner.Supplier
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		var err error
		supplier, err = repos.Suppliers().FindByIDForUpdate(ctx, supplierID)
		if err != nil {
			return err
		}
		if err := supplier.Update(contactOf(req.Name, req.Contact, req.Email, req.Address), req.DiscountOffered); err != nil {
			return err
		}
		return repos.Suppliers().Save(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete removes a supplier that has no purchase orders
func (s *SupplierService) Delete(ctx context.Context, supplierID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Suppliers().FindByIDForUpdate(ctx, supplierID); err != nil {
			return err
		}
		orders, err := repos.PurchaseOrders().CountBySupplier(ctx, supplierID)
		if err != nil {
			return err
		}
		if orders > 0 {
			return shared.NewDomainError(shared.CodeConflict, "Supplier has purchase orders and cannot be deleted")
		}
		return repos.Suppliers().Delete(ctx, supplierID)
	})
}

func partnerFilter(filter PartnerListFilter) shared.Filter {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.OrderBy = filter.OrderBy
	f.OrderDir = "asc"
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		f.Filters["name"] = name
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		f.Filters["email"] = email
	}
	return f
}
