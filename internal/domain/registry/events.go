package registry

import (
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeCustomer = "Customer"
	AggregateTypeMachine  = "Machine"
)

// Event type constants
const (
	EventTypeCustomerCreated = "CustomerCreated"
)

// CustomerCreatedEvent is raised when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID `json:"customer_id"`
	CompanyName string    `json:"company_name"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		CompanyName:     customer.CompanyName,
	}
}
