package registry

import (
	"strings"
	"time"

	"github.com/fieldserve/backend/internal/domain/shared"
)

// Customer represents a serviced customer site. It is the aggregate root
// for customer master data; tickets embed point-in-time snapshots of it
// rather than referencing it live.
type Customer struct {
	shared.BaseAggregateRoot
	CompanyName   string
	ContactPerson string
	Phone         string
	Address       string
	Disabled      bool
}

// NewCustomer creates a new customer with required fields
func NewCustomer(companyName, contactPerson, phone, address string) (*Customer, error) {
	if err := validateCompanyName(companyName); err != nil {
		return nil, err
	}
	if strings.TrimSpace(contactPerson) == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact person cannot be empty")
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyName:       strings.TrimSpace(companyName),
		ContactPerson:     strings.TrimSpace(contactPerson),
		Phone:             strings.TrimSpace(phone),
		Address:           strings.TrimSpace(address),
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's master data
func (c *Customer) Update(companyName, contactPerson, phone, address string) error {
	if err := validateCompanyName(companyName); err != nil {
		return err
	}
	if strings.TrimSpace(contactPerson) == "" {
		return shared.NewDomainError("INVALID_CONTACT", "Contact person cannot be empty")
	}
	c.CompanyName = strings.TrimSpace(companyName)
	c.ContactPerson = strings.TrimSpace(contactPerson)
	c.Phone = strings.TrimSpace(phone)
	c.Address = strings.TrimSpace(address)
	c.UpdatedAt = time.Now()
	return nil
}

// Disable marks the customer as disabled. Disabled customers keep their
// machines and historical tickets but cannot receive new tickets.
func (c *Customer) Disable() {
	c.Disabled = true
	c.UpdatedAt = time.Now()
}

// Enable re-activates a disabled customer
func (c *Customer) Enable() {
	c.Disabled = false
	c.UpdatedAt = time.Now()
}

func validateCompanyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}
	return nil
}
