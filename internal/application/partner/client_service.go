package partner

import (
	"context"

	"github.com/erp/supplychain/internal/application/txscope"
	"github.com/erp/supplychain/internal/domain/partner"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService handles client-related business operations
type ClientService struct {
	repos txscope.Repositories
	scope txscope.TransactionScope
}

// NewClientService creates a new ClientService
func NewClientService(repos txscope.Repositories, scope txscope.TransactionScope) *ClientService {
	return &ClientService{
		repos: repos,
		scope: scope,
	}
}

// Create creates a new client with a zero balance
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(contactOf(req.Name, req.Contact, req.Email, req.Address), req.DiscountOffered)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Clients().Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.repos.Clients().FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves a list of clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, filter PartnerListFilter) ([]ClientResponse, int64, error) {
	domainFilter := partnerFilter(filter)

	clients, err := s.repos.Clients().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Clients().Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses, total, nil
}

// Update replaces the contact details and discount of a client.
// The account balance only changes through invoices and payments.
func (s *ClientService) Update(ctx context.Context, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	var client *partner.Client
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		var err error
		client, err = repos.Clients().FindByIDForUpdate(ctx, clientID)
		if err != nil {
			return err
		}
		if err := client.Update(contactOf(req.Name, req.Contact, req.Email, req.Address), req.DiscountOffered); err != nil {
			return err
		}
		return repos.Clients().Save(ctx, client)
	})
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Delete removes a client that has no sales orders
func (s *ClientService) Delete(ctx context.Context, clientID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Clients().FindByIDForUpdate(ctx, clientID); err != nil {
			return err
		}
		orders, err := repos.SalesOrders().CountByClient(ctx, clientID)
		if err != nil {
			return err
		}
		if orders > 0 {
			return shared.NewDomainError(shared.CodeConflict, "Client has sales orders and cannot be deleted")
		}
		return repos.Clients().Delete(ctx, clientID)
	})
}
