package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fieldserve/backend/internal/domain/registry"
)

// CustomerModel is the persistence model for the Customer aggregate root.
type CustomerModel struct {
	AggregateModel
	CompanyName   string `gorm:"type:varchar(200);not null;index"`
	ContactPerson string `gorm:"type:varchar(200)"`
	Phone         string `gorm:"type:varchar(50)"`
	Address       string `gorm:"type:text"`
	Disabled      bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *registry.Customer {
	return &registry.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CompanyName:       m.CompanyName,
		ContactPerson:     m.ContactPerson,
		Phone:             m.Phone,
		Address:           m.Address,
		Disabled:          m.Disabled,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *registry.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CompanyName = c.CompanyName
	m.ContactPerson = c.ContactPerson
	m.Phone = c.Phone
	m.Address = c.Address
	m.Disabled = c.Disabled
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *registry.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// MachineModel is the persistence model for the Machine aggregate root.
type MachineModel struct {
	AggregateModel
	CustomerID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type             string     `gorm:"type:varchar(50);not null"`
	SerialNumber     string     `gorm:"type:varchar(100);not null;index"`
	Location         string     `gorm:"type:varchar(200)"`
	Notes            string     `gorm:"type:text"`
	InstallationDate *time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (MachineModel) TableName() string {
	return "machines"
}

// ToDomain converts the persistence model to a domain Machine entity.
func (m *MachineModel) ToDomain() *registry.Machine {
	return &registry.Machine{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		Type:              registry.MachineType(m.Type),
		SerialNumber:      m.SerialNumber,
		Location:          m.Location,
		Notes:             m.Notes,
		InstallationDate:  m.InstallationDate,
	}
}

// FromDomain populates the persistence model from a domain Machine entity.
func (m *MachineModel) FromDomain(machine *registry.Machine) {
	m.FromDomainAggregateRoot(machine.BaseAggregateRoot)
	m.CustomerID = machine.CustomerID
	m.Type = machine.Type.String()
	m.SerialNumber = machine.SerialNumber
	m.Location = machine.Location
	m.Notes = machine.Notes
	m.InstallationDate = machine.InstallationDate
}

// MachineModelFromDomain creates a new persistence model from a domain Machine entity.
func MachineModelFromDomain(machine *registry.Machine) *MachineModel {
	m := &MachineModel{}
	m.FromDomain(machine)
	return m
}

// PartModel is the persistence model for the Part aggregate root.
type PartModel struct {
	AggregateModel
	Name            string `gorm:"type:varchar(200);not null;index"`
	Description     string `gorm:"type:text"`
	Category        string `gorm:"type:varchar(100);index"`
	QuantityInStock int    `gorm:"not null;default:0"`
	MinQuantity     int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PartModel) TableName() string {
	return "parts"
}

// ToDomain converts the persistence model to a domain Part entity.
func (m *PartModel) ToDomain() *registry.Part {
	return &registry.Part{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Category:          m.Category,
		QuantityInStock:   m.QuantityInStock,
		MinQuantity:       m.MinQuantity,
	}
}

// FromDomain populates the persistence model from a domain Part entity.
func (m *PartModel) FromDomain(p *registry.Part) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.Category = p.Category
	m.QuantityInStock = p.QuantityInStock
	m.MinQuantity = p.MinQuantity
}

// PartModelFromDomain creates a new persistence model from a domain Part entity.
func PartModelFromDomain(p *registry.Part) *PartModel {
	m := &PartModel{}
	m.FromDomain(p)
	return m
}
