package ticketing

import (
	"strings"
	"time"

	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PartUsage records a part consumed during a visit. Stock levels are not
// decremented here; the parts catalog is informational at this layer.
type PartUsage struct {
	PartID   uuid.UUID `json:"part_id"`
	PartName string    `json:"part_name"`
	Quantity int       `json:"quantity"`
}

// MaintenanceRecommendation is an optional follow-up suggestion recorded
// by the technician.
type MaintenanceRecommendation struct {
	Date  time.Time `json:"date"`
	Notes string    `json:"notes"`
}

// WorkLog records one technician visit against one machine on one ticket.
// There is exactly one work log per (ticket, machine) pair: the first
// submission creates it, later submissions update it in place.
type WorkLog struct {
	shared.BaseAggregateRoot
	TicketID                  uuid.UUID
	MachineID                 uuid.UUID
	MachineType               registry.MachineType
	MachineSerialNumber       string
	RecordedBy                uuid.UUID
	ArrivalTime               time.Time
	DepartureTime             *time.Time
	HoursWorked               float64
	WorkPerformed             string
	Outcome                   string
	Repairs                   string
	PartsUsed                 []PartUsage
	MaintenanceRecommendation *MaintenanceRecommendation
}

// NewWorkLog creates a work log for a machine on a ticket
func NewWorkLog(ticketID uuid.UUID, machine TicketMachine, recordedBy uuid.UUID, arrivalTime time.Time) (*WorkLog, error) {
	if ticketID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TICKET", "Ticket ID cannot be empty")
	}
	if recordedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TECHNICIAN", "Recording technician cannot be empty")
	}
	if arrivalTime.IsZero() {
		return nil, shared.NewDomainError("INVALID_ARRIVAL_TIME", "Arrival time is required")
	}

	return &WorkLog{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		TicketID:            ticketID,
		MachineID:           machine.MachineID,
		MachineType:         machine.MachineType,
		MachineSerialNumber: machine.SerialNumber,
		RecordedBy:          recordedBy,
		ArrivalTime:         arrivalTime,
		PartsUsed:           make([]PartUsage, 0),
	}, nil
}

// RecordVisit sets the visit-level fields shared across all machines
// serviced in one visit.
func (w *WorkLog) RecordVisit(arrivalTime time.Time, departureTime *time.Time, hoursWorked float64) error {
	if arrivalTime.IsZero() {
		return shared.NewDomainError("INVALID_ARRIVAL_TIME", "Arrival time is required")
	}
	if departureTime != nil && departureTime.Before(arrivalTime) {
		return shared.NewDomainError("INVALID_DEPARTURE_TIME", "Departure time cannot be before arrival time")
	}
	if hoursWorked < 0 {
		return shared.NewDomainError("INVALID_HOURS", "Hours worked cannot be negative")
	}

	w.ArrivalTime = arrivalTime
	w.DepartureTime = departureTime
	w.HoursWorked = hoursWorked
	w.UpdatedAt = time.Now()
	return nil
}

// RecordWork sets the machine-specific work fields
func (w *WorkLog) RecordWork(workPerformed, outcome, repairs string) {
	w.WorkPerformed = strings.TrimSpace(workPerformed)
	w.Outcome = strings.TrimSpace(outcome)
	w.Repairs = strings.TrimSpace(repairs)
	w.UpdatedAt = time.Now()
}

// SetPartsUsed replaces the parts consumed during the visit
func (w *WorkLog) SetPartsUsed(parts []PartUsage) error {
	for _, p := range parts {
		if p.Quantity <= 0 {
			return shared.NewDomainError("INVALID_PART_QUANTITY", "Part quantity must be positive")
		}
	}
	w.PartsUsed = parts
	w.UpdatedAt = time.Now()
	return nil
}

// Recommend attaches a maintenance recommendation
func (w *WorkLog) Recommend(date time.Time, notes string) {
	w.MaintenanceRecommendation = &MaintenanceRecommendation{Date: date, Notes: notes}
	w.UpdatedAt = time.Now()
}

// IsComplete reports whether the work details required to close the
// parent ticket have been logged.
func (w *WorkLog) IsComplete() bool {
	return w.WorkPerformed != "" && w.Outcome != ""
}

// IsFirstTimeFix reports whether the visit ended with full details
// recorded: departure time, work performed and outcome all present.
func (w *WorkLog) IsFirstTimeFix() bool {
	return w.DepartureTime != nil && w.IsComplete()
}
