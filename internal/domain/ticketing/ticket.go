package ticketing

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TicketStatus represents the status of a service ticket
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "Open"
	TicketStatusAssigned TicketStatus = "Assigned"
	TicketStatusClosed   TicketStatus = "Closed"
)

// IsValid checks if the status is a valid TicketStatus
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusAssigned, TicketStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of TicketStatus
func (s TicketStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Assigned -> Open is the explicit unassign path used by admin edits.
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	switch s {
	case TicketStatusOpen:
		return target == TicketStatusAssigned
	case TicketStatusAssigned:
		return target == TicketStatusClosed || target == TicketStatusOpen
	case TicketStatusClosed:
		return false // Terminal state
	}
	return false
}

// Priority represents the urgency of a machine on a ticket
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// IsValid checks if the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// String returns the string representation of Priority
func (p Priority) String() string {
	return string(p)
}

// Minimum length for an issue description
const minIssueDescriptionLen = 10

// TicketNumberFormat documents the human-readable ticket number layout:
// TKT-YYYYMMDD-NNN with a 3-digit daily sequence.
const TicketNumberFormat = "TKT-%s-%03d"

// FormatTicketNumber builds a ticket number for a creation date and a
// daily sequence (1-based).
func FormatTicketNumber(createdAt time.Time, sequence int) string {
	return fmt.Sprintf(TicketNumberFormat, createdAt.Format("20060102"), sequence)
}

// TicketMachine is a value-type snapshot of a machine and its owning
// customer, embedded into a ticket at creation time. It is an embedded
// copy, not a live reference: later edits to the machine or customer
// master records never change historical tickets.
type TicketMachine struct {
	MachineID    uuid.UUID            `json:"machine_id"`
	MachineType  registry.MachineType `json:"machine_type"`
	SerialNumber string               `json:"serial_number"`
	CustomerID   uuid.UUID            `json:"customer_id"`
	CustomerName string               `json:"customer_name"`
	Priority     Priority             `json:"priority"`
}

// NewTicketMachine builds a machine snapshot from master data
func NewTicketMachine(machine *registry.Machine, customer *registry.Customer, priority Priority) (TicketMachine, error) {
	if !priority.IsValid() {
		return TicketMachine{}, shared.NewDomainError("INVALID_PRIORITY", "Unknown ticket priority")
	}
	if machine.CustomerID != customer.ID {
		return TicketMachine{}, shared.NewDomainError("MACHINE_CUSTOMER_MISMATCH", "Machine does not belong to this customer")
	}
	return TicketMachine{
		MachineID:    machine.ID,
		MachineType:  machine.Type,
		SerialNumber: machine.SerialNumber,
		CustomerID:   customer.ID,
		CustomerName: customer.CompanyName,
		Priority:     priority,
	}, nil
}

// Ticket represents a service ticket aggregate root. A ticket covers one
// or more machines at a customer site and moves Open -> Assigned -> Closed.
type Ticket struct {
	shared.BaseAggregateRoot
	TicketNumber       string
	Machines           []TicketMachine
	IssueDescription   string
	ContactPerson      string
	AssignedTo         *uuid.UUID
	AssignedToName     string
	Status             TicketStatus
	ScheduledVisitDate *time.Time
	AdditionalNotes    string
	ClosedAt           *time.Time
}

// NewTicket creates a new ticket. Status starts as Assigned when a
// technician is pre-assigned at creation, otherwise Open.
func NewTicket(ticketNumber string, createdBy uuid.UUID, machines []TicketMachine, issueDescription, contactPerson string) (*Ticket, error) {
	if ticketNumber == "" {
		return nil, shared.NewDomainError("INVALID_TICKET_NUMBER", "Ticket number cannot be empty")
	}
	if len(machines) == 0 {
		return nil, shared.NewDomainError("NO_MACHINES", "Ticket must include at least one machine")
	}
	if err := validateIssueDescription(issueDescription); err != nil {
		return nil, err
	}

	ticket := &Ticket{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithCreator(createdBy),
		TicketNumber:      ticketNumber,
		Machines:          machines,
		IssueDescription:  strings.TrimSpace(issueDescription),
		ContactPerson:     strings.TrimSpace(contactPerson),
		Status:            TicketStatusOpen,
	}

	ticket.AddDomainEvent(NewTicketCreatedEvent(ticket))

	return ticket, nil
}

// Assign assigns the ticket to a technician and moves it to Assigned.
// Reassigning an already assigned ticket is allowed.
func (t *Ticket) Assign(technicianID uuid.UUID, technicianName string) error {
	if technicianID == uuid.Nil {
		return shared.NewDomainError("INVALID_TECHNICIAN", "Technician ID cannot be empty")
	}
	if t.Status == TicketStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign a closed ticket")
	}

	oldStatus := t.Status
	t.AssignedTo = &technicianID
	t.AssignedToName = technicianName
	t.Status = TicketStatusAssigned
	t.UpdatedAt = time.Now()

	if oldStatus != TicketStatusAssigned {
		t.AddDomainEvent(NewTicketStatusChangedEvent(t, oldStatus, TicketStatusAssigned))
	}

	return nil
}

// Unassign removes the technician and moves the ticket back to Open.
// Only reachable via admin edits, never via technician flows.
func (t *Ticket) Unassign() error {
	if !t.Status.CanTransitionTo(TicketStatusOpen) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot unassign ticket in %s status", t.Status))
	}

	oldStatus := t.Status
	t.AssignedTo = nil
	t.AssignedToName = ""
	t.Status = TicketStatusOpen
	t.UpdatedAt = time.Now()

	t.AddDomainEvent(NewTicketStatusChangedEvent(t, oldStatus, TicketStatusOpen))

	return nil
}

// Close transitions the ticket to Closed. The caller must have verified
// the work-log completeness precondition; this is the single close
// transition used by both the explicit close and the departure-time path.
func (t *Ticket) Close() error {
	if !t.Status.CanTransitionTo(TicketStatusClosed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close ticket in %s status", t.Status))
	}

	now := time.Now()
	oldStatus := t.Status
	t.Status = TicketStatusClosed
	t.ClosedAt = &now
	t.UpdatedAt = now

	t.AddDomainEvent(NewTicketStatusChangedEvent(t, oldStatus, TicketStatusClosed))

	return nil
}

// UpdateDetails updates the admin-editable ticket fields
func (t *Ticket) UpdateDetails(issueDescription, contactPerson, additionalNotes string) error {
	if err := validateIssueDescription(issueDescription); err != nil {
		return err
	}
	t.IssueDescription = strings.TrimSpace(issueDescription)
	t.ContactPerson = strings.TrimSpace(contactPerson)
	t.AdditionalNotes = additionalNotes
	t.UpdatedAt = time.Now()
	return nil
}

// ScheduleVisit sets the planned technician visit date; nil clears it
func (t *Ticket) ScheduleVisit(date *time.Time) {
	t.ScheduledVisitDate = date
	t.UpdatedAt = time.Now()
}

// IsAssignedTo reports whether the ticket is assigned to the given user
func (t *Ticket) IsAssignedTo(userID uuid.UUID) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// IsClosed reports whether the ticket is closed
func (t *Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}

// MachineIDs returns the IDs of all machines on the ticket
func (t *Ticket) MachineIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(t.Machines))
	for i, m := range t.Machines {
		ids[i] = m.MachineID
	}
	return ids
}

// HasMachine reports whether the ticket covers the given machine
func (t *Ticket) HasMachine(machineID uuid.UUID) bool {
	for _, m := range t.Machines {
		if m.MachineID == machineID {
			return true
		}
	}
	return false
}

// PriorityTally counts machines per priority on the ticket
func (t *Ticket) PriorityTally() map[Priority]int {
	tally := make(map[Priority]int, 4)
	for _, m := range t.Machines {
		tally[m.Priority]++
	}
	return tally
}

func validateIssueDescription(desc string) error {
	if len(strings.TrimSpace(desc)) < minIssueDescriptionLen {
		return shared.NewDomainError("INVALID_ISSUE_DESCRIPTION",
			fmt.Sprintf("Issue description must be at least %d characters", minIssueDescriptionLen))
	}
	return nil
}
