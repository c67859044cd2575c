package registry

import (
	"context"

	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindAll finds all customers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// FindByIDs finds multiple customers by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// MachineRepository defines the interface for machine persistence
type MachineRepository interface {
	// FindByID finds a machine by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Machine, error)

	// FindByCustomer finds all machines owned by a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Machine, error)

	// FindByIDs finds multiple machines by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Machine, error)

	// FindAll finds all machines matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Machine, error)

	// Save creates or updates a machine
	Save(ctx context.Context, machine *Machine) error

	// Count counts machines matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PartRepository defines the interface for part persistence
type PartRepository interface {
	// FindByID finds a part by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Part, error)

	// FindAll finds all parts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Part, error)

	// Save creates or updates a part
	Save(ctx context.Context, part *Part) error

	// Count counts parts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
