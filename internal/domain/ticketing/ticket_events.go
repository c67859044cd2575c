package ticketing

import (
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeTicket  = "Ticket"
	AggregateTypeWorkLog = "WorkLog"
)

// Event type constants
const (
	EventTypeTicketCreated       = "TicketCreated"
	EventTypeTicketStatusChanged = "TicketStatusChanged"
	EventTypeWorkLogRecorded     = "WorkLogRecorded"
)

// TicketCreatedEvent is raised when a new ticket is created
type TicketCreatedEvent struct {
	shared.BaseDomainEvent
	TicketID     uuid.UUID `json:"ticket_id"`
	TicketNumber string    `json:"ticket_number"`
	MachineCount int       `json:"machine_count"`
}

// NewTicketCreatedEvent creates a new TicketCreatedEvent
func NewTicketCreatedEvent(ticket *Ticket) *TicketCreatedEvent {
	return &TicketCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTicketCreated, AggregateTypeTicket, ticket.ID),
		TicketID:        ticket.ID,
		TicketNumber:    ticket.TicketNumber,
		MachineCount:    len(ticket.Machines),
	}
}

// TicketStatusChangedEvent is raised on every status transition. The
// stats service consumes it to keep call-admin counters current.
type TicketStatusChangedEvent struct {
	shared.BaseDomainEvent
	TicketID  uuid.UUID    `json:"ticket_id"`
	OldStatus TicketStatus `json:"old_status"`
	NewStatus TicketStatus `json:"new_status"`
}

// NewTicketStatusChangedEvent creates a new TicketStatusChangedEvent
func NewTicketStatusChangedEvent(ticket *Ticket, oldStatus, newStatus TicketStatus) *TicketStatusChangedEvent {
	return &TicketStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTicketStatusChanged, AggregateTypeTicket, ticket.ID),
		TicketID:        ticket.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// WorkLogRecordedEvent is raised when a work log is created or updated
type WorkLogRecordedEvent struct {
	shared.BaseDomainEvent
	WorkLogID uuid.UUID `json:"work_log_id"`
	TicketID  uuid.UUID `json:"ticket_id"`
	MachineID uuid.UUID `json:"machine_id"`
}

// NewWorkLogRecordedEvent creates a new WorkLogRecordedEvent
func NewWorkLogRecordedEvent(log *WorkLog) *WorkLogRecordedEvent {
	return &WorkLogRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkLogRecorded, AggregateTypeWorkLog, log.ID),
		WorkLogID:       log.ID,
		TicketID:        log.TicketID,
		MachineID:       log.MachineID,
	}
}
