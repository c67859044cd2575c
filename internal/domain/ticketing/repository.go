package ticketing

import (
	"context"
	"time"

	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TicketRepository defines the interface for ticket persistence
type TicketRepository interface {
	// FindByID finds a ticket by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Ticket, error)

	// FindByNumber finds a ticket by its human-readable number
	FindByNumber(ctx context.Context, ticketNumber string) (*Ticket, error)

	// FindAll finds all tickets matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Ticket, error)

	// FindByStatus finds tickets in any of the given statuses
	FindByStatus(ctx context.Context, statuses []TicketStatus, filter shared.Filter) ([]Ticket, error)

	// FindByAssignee finds tickets assigned to a technician
	FindByAssignee(ctx context.Context, technicianID uuid.UUID, filter shared.Filter) ([]Ticket, error)

	// FindByCreator finds tickets created by a user
	FindByCreator(ctx context.Context, createdBy uuid.UUID) ([]Ticket, error)

	// CountCreatedBetween counts tickets created in [start, end). Used to
	// derive the daily ticket-number sequence.
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)

	// Save creates or updates a ticket together with its machine snapshots
	Save(ctx context.Context, ticket *Ticket) error

	// Count counts tickets matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// WorkLogRepository defines the interface for work log persistence
type WorkLogRepository interface {
	// FindByID finds a work log by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*WorkLog, error)

	// FindByTicket finds all work logs for a ticket
	FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]WorkLog, error)

	// FindByTicketAndMachine finds the work log for one machine on one
	// ticket. Returns shared.ErrNotFound when none exists yet.
	FindByTicketAndMachine(ctx context.Context, ticketID, machineID uuid.UUID) (*WorkLog, error)

	// FindByMachine finds the service history of a machine across tickets
	FindByMachine(ctx context.Context, machineID uuid.UUID) ([]WorkLog, error)

	// FindAll finds all work logs matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]WorkLog, error)

	// Save creates or updates a single work log
	Save(ctx context.Context, log *WorkLog) error

	// SaveBatch persists several work logs atomically: all logs for one
	// technician visit succeed or fail together.
	SaveBatch(ctx context.Context, logs []*WorkLog) error
}
