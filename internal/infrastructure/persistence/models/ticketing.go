package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/ticketing"
)

// TicketModel is the persistence model for the Ticket aggregate root.
type TicketModel struct {
	AggregateModel
	TicketNumber       string               `gorm:"type:varchar(20);not null;uniqueIndex"`
	Machines           []TicketMachineModel `gorm:"foreignKey:TicketID;references:ID"`
	IssueDescription   string               `gorm:"type:text;not null"`
	ContactPerson      string               `gorm:"type:varchar(200)"`
	AssignedTo         *uuid.UUID           `gorm:"type:uuid;index"`
	AssignedToName     string               `gorm:"type:varchar(200)"`
	Status             string               `gorm:"type:varchar(20);not null;default:'Open';index"`
	ScheduledVisitDate *time.Time           `gorm:"index"`
	AdditionalNotes    string               `gorm:"type:text"`
	ClosedAt           *time.Time           `gorm:"index"`
}

// TableName returns the table name for GORM
func (TicketModel) TableName() string {
	return "tickets"
}

// ToDomain converts the persistence model to a domain Ticket entity.
func (m *TicketModel) ToDomain() *ticketing.Ticket {
	ticket := &ticketing.Ticket{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		TicketNumber:       m.TicketNumber,
		IssueDescription:   m.IssueDescription,
		ContactPerson:      m.ContactPerson,
		AssignedTo:         m.AssignedTo,
		AssignedToName:     m.AssignedToName,
		Status:             ticketing.TicketStatus(m.Status),
		ScheduledVisitDate: m.ScheduledVisitDate,
		AdditionalNotes:    m.AdditionalNotes,
		ClosedAt:           m.ClosedAt,
		Machines:           make([]ticketing.TicketMachine, len(m.Machines)),
	}
	for i, machine := range m.Machines {
		ticket.Machines[i] = machine.ToDomain()
	}
	return ticket
}

// FromDomain populates the persistence model from a domain Ticket entity.
func (m *TicketModel) FromDomain(t *ticketing.Ticket) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TicketNumber = t.TicketNumber
	m.IssueDescription = t.IssueDescription
	m.ContactPerson = t.ContactPerson
	m.AssignedTo = t.AssignedTo
	m.AssignedToName = t.AssignedToName
	m.Status = t.Status.String()
	m.ScheduledVisitDate = t.ScheduledVisitDate
	m.AdditionalNotes = t.AdditionalNotes
	m.ClosedAt = t.ClosedAt
	m.Machines = make([]TicketMachineModel, len(t.Machines))
	for i, machine := range t.Machines {
		m.Machines[i] = TicketMachineModelFromDomain(t.ID, machine)
	}
}

// TicketModelFromDomain creates a new persistence model from a domain Ticket entity.
func TicketModelFromDomain(t *ticketing.Ticket) *TicketModel {
	m := &TicketModel{}
	m.FromDomain(t)
	return m
}

// TicketMachineModel persists one machine snapshot embedded in a ticket.
// Snapshots are immutable once written; the row key is (ticket, machine).
type TicketMachineModel struct {
	TicketID     uuid.UUID `gorm:"type:uuid;primary_key"`
	MachineID    uuid.UUID `gorm:"type:uuid;primary_key"`
	MachineType  string    `gorm:"type:varchar(50);not null"`
	SerialNumber string    `gorm:"type:varchar(100);not null"`
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName string    `gorm:"type:varchar(200);not null"`
	Priority     string    `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (TicketMachineModel) TableName() string {
	return "ticket_machines"
}

// ToDomain converts the persistence model to a domain TicketMachine snapshot.
func (m *TicketMachineModel) ToDomain() ticketing.TicketMachine {
	return ticketing.TicketMachine{
		MachineID:    m.MachineID,
		MachineType:  registry.MachineType(m.MachineType),
		SerialNumber: m.SerialNumber,
		CustomerID:   m.CustomerID,
		CustomerName: m.CustomerName,
		Priority:     ticketing.Priority(m.Priority),
	}
}

// TicketMachineModelFromDomain creates a persistence row from a domain snapshot.
func TicketMachineModelFromDomain(ticketID uuid.UUID, tm ticketing.TicketMachine) TicketMachineModel {
	return TicketMachineModel{
		TicketID:     ticketID,
		MachineID:    tm.MachineID,
		MachineType:  tm.MachineType.String(),
		SerialNumber: tm.SerialNumber,
		CustomerID:   tm.CustomerID,
		CustomerName: tm.CustomerName,
		Priority:     tm.Priority.String(),
	}
}

// WorkLogModel is the persistence model for the WorkLog aggregate root.
// Parts used and the maintenance recommendation are stored as JSON
// sub-documents, matching how the technician submits them.
type WorkLogModel struct {
	AggregateModel
	TicketID                  uuid.UUID                            `gorm:"type:uuid;not null;uniqueIndex:idx_work_log_ticket_machine,priority:1"`
	MachineID                 uuid.UUID                            `gorm:"type:uuid;not null;uniqueIndex:idx_work_log_ticket_machine,priority:2;index"`
	MachineType               string                               `gorm:"type:varchar(50);not null"`
	MachineSerialNumber       string                               `gorm:"type:varchar(100);not null"`
	RecordedBy                uuid.UUID                            `gorm:"type:uuid;not null;index"`
	ArrivalTime               time.Time                            `gorm:"not null"`
	DepartureTime             *time.Time
	HoursWorked               float64                              `gorm:"not null;default:0"`
	WorkPerformed             string                               `gorm:"type:text"`
	Outcome                   string                               `gorm:"type:text"`
	Repairs                   string                               `gorm:"type:text"`
	PartsUsed                 []ticketing.PartUsage                `gorm:"type:jsonb;serializer:json"`
	MaintenanceRecommendation *ticketing.MaintenanceRecommendation `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (WorkLogModel) TableName() string {
	return "work_logs"
}

// ToDomain converts the persistence model to a domain WorkLog entity.
func (m *WorkLogModel) ToDomain() *ticketing.WorkLog {
	parts := m.PartsUsed
	if parts == nil {
		parts = make([]ticketing.PartUsage, 0)
	}
	return &ticketing.WorkLog{
		BaseAggregateRoot:         m.ToDomainAggregateRoot(),
		TicketID:                  m.TicketID,
		MachineID:                 m.MachineID,
		MachineType:               registry.MachineType(m.MachineType),
		MachineSerialNumber:       m.MachineSerialNumber,
		RecordedBy:                m.RecordedBy,
		ArrivalTime:               m.ArrivalTime,
		DepartureTime:             m.DepartureTime,
		HoursWorked:               m.HoursWorked,
		WorkPerformed:             m.WorkPerformed,
		Outcome:                   m.Outcome,
		Repairs:                   m.Repairs,
		PartsUsed:                 parts,
		MaintenanceRecommendation: m.MaintenanceRecommendation,
	}
}

// FromDomain populates the persistence model from a domain WorkLog entity.
func (m *WorkLogModel) FromDomain(w *ticketing.WorkLog) {
	m.FromDomainAggregateRoot(w.BaseAggregateRoot)
	m.TicketID = w.TicketID
	m.MachineID = w.MachineID
	m.MachineType = w.MachineType.String()
	m.MachineSerialNumber = w.MachineSerialNumber
	m.RecordedBy = w.RecordedBy
	m.ArrivalTime = w.ArrivalTime
	m.DepartureTime = w.DepartureTime
	m.HoursWorked = w.HoursWorked
	m.WorkPerformed = w.WorkPerformed
	m.Outcome = w.Outcome
	m.Repairs = w.Repairs
	m.PartsUsed = w.PartsUsed
	m.MaintenanceRecommendation = w.MaintenanceRecommendation
}

// WorkLogModelFromDomain creates a new persistence model from a domain WorkLog entity.
func WorkLogModelFromDomain(w *ticketing.WorkLog) *WorkLogModel {
	m := &WorkLogModel{}
	m.FromDomain(w)
	return m
}
