package ticketing

import (
	"time"

	"github.com/google/uuid"

	"github.com/fieldserve/backend/internal/domain/ticketing"
)

// TicketMachineInput selects a machine and its priority for a new ticket
type TicketMachineInput struct {
	MachineID uuid.UUID `json:"machine_id" binding:"required"`
	Priority  string    `json:"priority" binding:"required,oneof=Low Medium High Urgent"`
}

// CreateTicketRequest represents a request to create a ticket
type CreateTicketRequest struct {
	Machines           []TicketMachineInput `json:"machines" binding:"required,min=1,dive"`
	IssueDescription   string               `json:"issue_description" binding:"required,min=10"`
	ContactPerson      string               `json:"contact_person"`
	AssignedTo         *uuid.UUID           `json:"assigned_to"`
	ScheduledVisitDate *time.Time           `json:"scheduled_visit_date"`
	AdditionalNotes    string               `json:"additional_notes"`
}

// UpdateTicketRequest represents an admin-side partial update.
// Nil fields are left unchanged.
type UpdateTicketRequest struct {
	IssueDescription   *string    `json:"issue_description" binding:"omitempty,min=10"`
	ContactPerson      *string    `json:"contact_person"`
	AdditionalNotes    *string    `json:"additional_notes"`
	AssignedTo         *uuid.UUID `json:"assigned_to"`
	Status             *string    `json:"status" binding:"omitempty,oneof=Open Assigned Closed"`
	ScheduledVisitDate *time.Time `json:"scheduled_visit_date"`
	ClearScheduledDate bool       `json:"clear_scheduled_date"`
}

// TechnicianUpdateRequest represents the technician-side partial update.
// Setting DepartureTime completes the visit and closes the ticket once
// every machine has full work details.
type TechnicianUpdateRequest struct {
	AdditionalNotes    *string    `json:"additional_notes"`
	ScheduledVisitDate *time.Time `json:"scheduled_visit_date"`
	DepartureTime      *time.Time `json:"departure_time"`
}

// TicketListFilter represents filter options for ticket lists
type TicketListFilter struct {
	Search     string     `form:"search"`
	Status     *string    `form:"status" binding:"omitempty,oneof=Open Assigned Closed"`
	AssignedTo *uuid.UUID `form:"assigned_to"`
	StartDate  *time.Time `form:"start_date"`
	EndDate    *time.Time `form:"end_date"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TicketMachineResponse represents one machine snapshot on a ticket
type TicketMachineResponse struct {
	MachineID    uuid.UUID `json:"machine_id"`
	MachineType  string    `json:"machine_type"`
	SerialNumber string    `json:"serial_number"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Priority     string    `json:"priority"`
}

// TicketResponse represents a ticket in API responses
type TicketResponse struct {
	ID                 uuid.UUID               `json:"id"`
	TicketNumber       string                  `json:"ticket_number"`
	Machines           []TicketMachineResponse `json:"machines"`
	IssueDescription   string                  `json:"issue_description"`
	ContactPerson      string                  `json:"contact_person"`
	AssignedTo         *uuid.UUID              `json:"assigned_to,omitempty"`
	AssignedToName     string                  `json:"assigned_to_name,omitempty"`
	Status             string                  `json:"status"`
	ScheduledVisitDate *time.Time              `json:"scheduled_visit_date,omitempty"`
	AdditionalNotes    string                  `json:"additional_notes,omitempty"`
	CreatedBy          *uuid.UUID              `json:"created_by,omitempty"`
	ClosedAt           *time.Time              `json:"closed_at,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// ToTicketResponse converts a domain Ticket to a TicketResponse
func ToTicketResponse(t *ticketing.Ticket) TicketResponse {
	machines := make([]TicketMachineResponse, len(t.Machines))
	for i, m := range t.Machines {
		machines[i] = TicketMachineResponse{
			MachineID:    m.MachineID,
			MachineType:  m.MachineType.String(),
			SerialNumber: m.SerialNumber,
			CustomerID:   m.CustomerID,
			CustomerName: m.CustomerName,
			Priority:     m.Priority.String(),
		}
	}
	return TicketResponse{
		ID:                 t.ID,
		TicketNumber:       t.TicketNumber,
		Machines:           machines,
		IssueDescription:   t.IssueDescription,
		ContactPerson:      t.ContactPerson,
		AssignedTo:         t.AssignedTo,
		AssignedToName:     t.AssignedToName,
		Status:             t.Status.String(),
		ScheduledVisitDate: t.ScheduledVisitDate,
		AdditionalNotes:    t.AdditionalNotes,
		CreatedBy:          t.GetCreatedBy(),
		ClosedAt:           t.ClosedAt,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

// PartUsageInput represents a part consumed during a visit
type PartUsageInput struct {
	PartID   uuid.UUID `json:"part_id" binding:"required"`
	PartName string    `json:"part_name" binding:"required,min=1,max=200"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// MaintenanceRecommendationInput represents a follow-up suggestion
type MaintenanceRecommendationInput struct {
	Date  time.Time `json:"date" binding:"required"`
	Notes string    `json:"notes" binding:"required,min=1"`
}

// WorkLogEntryRequest represents a work log submission for one machine
type WorkLogEntryRequest struct {
	MachineID                 uuid.UUID                       `json:"machine_id" binding:"required"`
	ArrivalTime               time.Time                       `json:"arrival_time" binding:"required"`
	DepartureTime             *time.Time                      `json:"departure_time"`
	HoursWorked               float64                         `json:"hours_worked" binding:"min=0"`
	WorkPerformed             string                          `json:"work_performed"`
	Outcome                   string                          `json:"outcome"`
	Repairs                   string                          `json:"repairs"`
	PartsUsed                 []PartUsageInput                `json:"parts_used" binding:"omitempty,dive"`
	MaintenanceRecommendation *MaintenanceRecommendationInput `json:"maintenance_recommendation"`
}

// BulkWorkLogMachineInput carries the per-machine fields of a bulk entry
type BulkWorkLogMachineInput struct {
	MachineID                 uuid.UUID                       `json:"machine_id" binding:"required"`
	WorkPerformed             string                          `json:"work_performed"`
	Outcome                   string                          `json:"outcome"`
	Repairs                   string                          `json:"repairs"`
	PartsUsed                 []PartUsageInput                `json:"parts_used" binding:"omitempty,dive"`
	MaintenanceRecommendation *MaintenanceRecommendationInput `json:"maintenance_recommendation"`
}

// BulkWorkLogRequest applies one visit to several machines. Arrival,
// departure and hours are shared; the work fields vary per machine.
type BulkWorkLogRequest struct {
	ArrivalTime   time.Time                 `json:"arrival_time" binding:"required"`
	DepartureTime *time.Time                `json:"departure_time"`
	HoursWorked   float64                   `json:"hours_worked" binding:"min=0"`
	Machines      []BulkWorkLogMachineInput `json:"machines" binding:"required,min=1,dive"`
}

// WorkLogResponse represents a work log in API responses
type WorkLogResponse struct {
	ID                        uuid.UUID                            `json:"id"`
	TicketID                  uuid.UUID                            `json:"ticket_id"`
	MachineID                 uuid.UUID                            `json:"machine_id"`
	MachineType               string                               `json:"machine_type"`
	MachineSerialNumber       string                               `json:"machine_serial_number"`
	RecordedBy                uuid.UUID                            `json:"recorded_by"`
	ArrivalTime               time.Time                            `json:"arrival_time"`
	DepartureTime             *time.Time                           `json:"departure_time,omitempty"`
	HoursWorked               float64                              `json:"hours_worked"`
	WorkPerformed             string                               `json:"work_performed"`
	Outcome                   string                               `json:"outcome"`
	Repairs                   string                               `json:"repairs,omitempty"`
	PartsUsed                 []ticketing.PartUsage                `json:"parts_used"`
	MaintenanceRecommendation *ticketing.MaintenanceRecommendation `json:"maintenance_recommendation,omitempty"`
	CreatedAt                 time.Time                            `json:"created_at"`
	UpdatedAt                 time.Time                            `json:"updated_at"`
}

// ToWorkLogResponse converts a domain WorkLog to a WorkLogResponse
func ToWorkLogResponse(w *ticketing.WorkLog) WorkLogResponse {
	return WorkLogResponse{
		ID:                        w.ID,
		TicketID:                  w.TicketID,
		MachineID:                 w.MachineID,
		MachineType:               w.MachineType.String(),
		MachineSerialNumber:       w.MachineSerialNumber,
		RecordedBy:                w.RecordedBy,
		ArrivalTime:               w.ArrivalTime,
		DepartureTime:             w.DepartureTime,
		HoursWorked:               w.HoursWorked,
		WorkPerformed:             w.WorkPerformed,
		Outcome:                   w.Outcome,
		Repairs:                   w.Repairs,
		PartsUsed:                 w.PartsUsed,
		MaintenanceRecommendation: w.MaintenanceRecommendation,
		CreatedAt:                 w.CreatedAt,
		UpdatedAt:                 w.UpdatedAt,
	}
}
