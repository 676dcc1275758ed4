package partner

import (
	"time"

	"github.com/erp/supplychain/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// Supplier DTOs
// ============================================================================

// CreateSupplierRequest represents a request to create a new supplier
type CreateSupplierRequest struct {
	Name            string          `json:"supplier_name" binding:"required,min=1,max=200"`
	Contact         string          `json:"supplier_contact" binding:"max=50"`
	Email           string          `json:"supplier_email" binding:"omitempty,email,max=200"`
	Address         string          `json:"supplier_address" binding:"max=500"`
	DiscountOffered decimal.Decimal `json:"discount_offered" binding:"decimal_gte0"`
}

// UpdateSupplierRequest replaces the descriptive fields of a supplier
type UpdateSupplierRequest = CreateSupplierRequest

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID              uuid.UUID       `json:"supplier_id"`
	Name            string          `json:"supplier_name"`
	Contact         string          `json:"supplier_contact"`
	Email           string          `json:"supplier_email"`
	Address         string          `json:"supplier_address"`
	DiscountOffered decimal.Decimal `json:"discount_offered"`
	AccountBalance  decimal.Decimal `json:"account_balance"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:              s.ID,
		Name:            s.Name,
		Contact:         s.Phone,
		Email:           s.Email,
		Address:         s.Address,
		DiscountOffered: s.DiscountRate,
		AccountBalance:  s.Balance,
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ============================================================================
// Client DTOs
// ============================================================================

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	Name            string          `json:"client_name" binding:"required,min=1,max=200"`
	Contact         string          `json:"client_contact" binding:"max=50"`
	Email           string          `json:"client_email" binding:"omitempty,email,max=200"`
	Address         string          `json:"client_address" binding:"max=500"`
	DiscountOffered decimal.Decimal `json:"discount_offered" binding:"decimal_gte0"`
}

// UpdateClientRequest replaces the descriptive fields of a client
type UpdateClientRequest = CreateClientRequest

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID              uuid.UUID       `json:"client_id"`
	Name            string          `json:"client_name"`
	Contact         string          `json:"client_contact"`
	Email           string          `json:"client_email"`
	Address         string          `json:"client_address"`
	DiscountOffered decimal.Decimal `json:"discount_offered"`
	AccountBalance  decimal.Decimal `json:"account_balance"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:              c.ID,
		Name:            c.Name,
		Contact:         c.Phone,
		Email:           c.Email,
		Address:         c.Address,
		DiscountOffered: c.DiscountRate,
		AccountBalance:  c.Balance,
		Version:         c.Version,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ============================================================================
// Shared
// ============================================================================

// PartnerListFilter represents filter options for supplier and client lists
type PartnerListFilter struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func contactOf(name, phone, email, address string) partner.Contact {
	return partner.Contact{Name: name, Phone: phone, Email: email, Address: address}
}
