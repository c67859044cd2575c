package registry

import (
	"strings"
	"time"

	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MachineType represents the kind of equipment installed at a customer site
type MachineType string

const (
	MachineTypeCrescendo MachineType = "Crescendo"
	MachineTypeEspresso  MachineType = "Espresso"
	MachineTypeGrinder   MachineType = "Grinder"
	MachineTypeOther     MachineType = "Other"
)

// IsValid checks if the machine type is known
func (t MachineType) IsValid() bool {
	switch t {
	case MachineTypeCrescendo, MachineTypeEspresso, MachineTypeGrinder, MachineTypeOther:
		return true
	}
	return false
}

// String returns the string representation of MachineType
func (t MachineType) String() string {
	return string(t)
}

// Machine represents a piece of equipment owned by exactly one customer.
// Deleting a customer does not cascade to machines.
type Machine struct {
	shared.BaseAggregateRoot
	CustomerID       uuid.UUID
	Type             MachineType
	SerialNumber     string
	Location         string
	Notes            string
	InstallationDate *time.Time
}

// NewMachine creates a new machine for a customer
func NewMachine(customerID uuid.UUID, machineType MachineType, serialNumber string) (*Machine, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !machineType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MACHINE_TYPE", "Unknown machine type")
	}
	if strings.TrimSpace(serialNumber) == "" {
		return nil, shared.NewDomainError("INVALID_SERIAL_NUMBER", "Serial number cannot be empty")
	}

	return &Machine{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Type:              machineType,
		SerialNumber:      strings.TrimSpace(serialNumber),
	}, nil
}

// SetLocation sets where the machine is installed on the customer site
func (m *Machine) SetLocation(location string) {
	m.Location = strings.TrimSpace(location)
	m.UpdatedAt = time.Now()
}

// SetNotes sets free-form notes about the machine
func (m *Machine) SetNotes(notes string) {
	m.Notes = notes
	m.UpdatedAt = time.Now()
}

// SetInstallationDate records when the machine was installed
func (m *Machine) SetInstallationDate(date time.Time) {
	m.InstallationDate = &date
	m.UpdatedAt = time.Now()
}
