package registry

import (
	"time"

	"github.com/google/uuid"

	"github.com/fieldserve/backend/internal/domain/registry"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	CompanyName   string `json:"company_name" binding:"required,min=1,max=200"`
	ContactPerson string `json:"contact_person" binding:"required,min=1,max=200"`
	Phone         string `json:"phone" binding:"max=50"`
	Address       string `json:"address" binding:"max=500"`
}

// UpdateCustomerRequest represents a partial customer update
type UpdateCustomerRequest struct {
	CompanyName   *string `json:"company_name" binding:"omitempty,min=1,max=200"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,min=1,max=200"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
	Disabled      *bool   `json:"disabled"`
}

// CustomerListFilter represents filter options for customer lists
type CustomerListFilter struct {
	Search          string `form:"search"`
	IncludeDisabled bool   `form:"include_disabled"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID            uuid.UUID `json:"id"`
	CompanyName   string    `json:"company_name"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	Disabled      bool      `json:"disabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to a CustomerResponse
func ToCustomerResponse(c *registry.Customer) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		CompanyName:   c.CompanyName,
		ContactPerson: c.ContactPerson,
		Phone:         c.Phone,
		Address:       c.Address,
		Disabled:      c.Disabled,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// CreateMachineRequest represents a request to register a machine
type CreateMachineRequest struct {
	CustomerID       uuid.UUID  `json:"customer_id" binding:"required"`
	Type             string     `json:"type" binding:"required,oneof=Crescendo Espresso Grinder Other"`
	SerialNumber     string     `json:"serial_number" binding:"required,min=1,max=100"`
	Location         string     `json:"location" binding:"max=200"`
	Notes            string     `json:"notes"`
	InstallationDate *time.Time `json:"installation_date"`
}

// UpdateMachineRequest represents a partial machine update
type UpdateMachineRequest struct {
	Location         *string    `json:"location" binding:"omitempty,max=200"`
	Notes            *string    `json:"notes"`
	InstallationDate *time.Time `json:"installation_date"`
}

// MachineListFilter represents filter options for machine lists
type MachineListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Type       *string    `form:"type" binding:"omitempty,oneof=Crescendo Espresso Grinder Other"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MachineResponse represents a machine in API responses
type MachineResponse struct {
	ID               uuid.UUID  `json:"id"`
	CustomerID       uuid.UUID  `json:"customer_id"`
	Type             string     `json:"type"`
	SerialNumber     string     `json:"serial_number"`
	Location         string     `json:"location,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	InstallationDate *time.Time `json:"installation_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToMachineResponse converts a domain Machine to a MachineResponse
func ToMachineResponse(m *registry.Machine) MachineResponse {
	return MachineResponse{
		ID:               m.ID,
		CustomerID:       m.CustomerID,
		Type:             m.Type.String(),
		SerialNumber:     m.SerialNumber,
		Location:         m.Location,
		Notes:            m.Notes,
		InstallationDate: m.InstallationDate,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// CreatePartRequest represents a request to add a part to the catalog
type CreatePartRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=200"`
	Description     string `json:"description"`
	Category        string `json:"category" binding:"max=100"`
	QuantityInStock int    `json:"quantity_in_stock" binding:"min=0"`
	MinQuantity     int    `json:"min_quantity" binding:"min=0"`
}

// UpdatePartRequest represents a partial part update
type UpdatePartRequest struct {
	Description     *string `json:"description"`
	Category        *string `json:"category" binding:"omitempty,max=100"`
	QuantityInStock *int    `json:"quantity_in_stock" binding:"omitempty,min=0"`
	MinQuantity     *int    `json:"min_quantity" binding:"omitempty,min=0"`
}

// PartListFilter represents filter options for part lists
type PartListFilter struct {
	Search   string  `form:"search"`
	Category *string `form:"category"`
	LowStock bool    `form:"low_stock"`
	Page     int     `form:"page" binding:"omitempty,min=1"`
	PageSize int     `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string  `form:"order_by"`
	OrderDir string  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PartResponse represents a part in API responses
type PartResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	QuantityInStock int       `json:"quantity_in_stock"`
	MinQuantity     int       `json:"min_quantity"`
	LowStock        bool      `json:"low_stock"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToPartResponse converts a domain Part to a PartResponse
func ToPartResponse(p *registry.Part) PartResponse {
	return PartResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		QuantityInStock: p.QuantityInStock,
		MinQuantity:     p.MinQuantity,
		LowStock:        p.IsLowStock(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
