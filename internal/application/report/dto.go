package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TechnicianReport aggregates one technician's workload
type TechnicianReport struct {
	TechnicianID    uuid.UUID       `json:"technician_id"`
	Name            string          `json:"name"`
	AssignedTickets int             `json:"assigned_tickets"`
	ClosedTickets   int             `json:"closed_tickets"`
	TotalHours      float64         `json:"total_hours"`
	Revenue         decimal.Decimal `json:"revenue"`
}

// TechnicianMetrics is the technician workload report
type TechnicianMetrics struct {
	Technicians []TechnicianReport `json:"technicians"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// AgingTicket is an open or assigned ticket older than the aging threshold
type AgingTicket struct {
	TicketID     uuid.UUID `json:"ticket_id"`
	TicketNumber string    `json:"ticket_number"`
	Status       string    `json:"status"`
	DaysOpen     int       `json:"days_open"`
	CreatedAt    time.Time `json:"created_at"`
}

// TicketMetrics is the ticket volume and resolution report
type TicketMetrics struct {
	TotalTickets       int            `json:"total_tickets"`
	ByStatus           map[string]int `json:"by_status"`
	ByPriority         map[string]int `json:"by_priority"`
	AvgResolutionHours float64        `json:"avg_resolution_hours"`
	AgingTickets       []AgingTicket  `json:"aging_tickets"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

// CustomerReport aggregates service activity at one customer site
type CustomerReport struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	CompanyName  string    `json:"company_name"`
	TicketCount  int       `json:"ticket_count"`
	MachineCount int       `json:"machine_count"`
	TotalHours   float64   `json:"total_hours"`
}

// CustomerMetrics is the per-customer service activity report
type CustomerMetrics struct {
	Customers   []CustomerReport `json:"customers"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// EquipmentReport aggregates service activity for one machine type
type EquipmentReport struct {
	MachineType  string  `json:"machine_type"`
	MachineCount int     `json:"machine_count"`
	TicketCount  int     `json:"ticket_count"`
	WorkLogCount int     `json:"work_log_count"`
	TotalHours   float64 `json:"total_hours"`
}

// EquipmentMetrics is the per-machine-type report
type EquipmentMetrics struct {
	Equipment   []EquipmentReport `json:"equipment"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// TechnicianRevenue is the revenue breakdown for one technician
type TechnicianRevenue struct {
	TechnicianID uuid.UUID       `json:"technician_id"`
	Name         string          `json:"name"`
	Hours        float64         `json:"hours"`
	Revenue      decimal.Decimal `json:"revenue"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
}

// RevenueMetrics is the revenue and cost report. Revenue is hours billed
// at each technician's chargeout rate, cost is hours at the internal pay
// rate.
type RevenueMetrics struct {
	TotalRevenue  decimal.Decimal     `json:"total_revenue"`
	TotalCost     decimal.Decimal     `json:"total_cost"`
	Profit        decimal.Decimal     `json:"profit"`
	Margin        decimal.Decimal     `json:"margin"`
	PerTechnician []TechnicianRevenue `json:"per_technician"`
	GeneratedAt   time.Time           `json:"generated_at"`
}

// ServiceQualityMetrics is the first-time-fix and resolution report
type ServiceQualityMetrics struct {
	ClosedTickets      int       `json:"closed_tickets"`
	FirstTimeFixes     int       `json:"first_time_fixes"`
	FirstTimeFixRate   float64   `json:"first_time_fix_rate"`
	AvgResolutionHours float64   `json:"avg_resolution_hours"`
	AvgHoursPerVisit   float64   `json:"avg_hours_per_visit"`
	GeneratedAt        time.Time `json:"generated_at"`
}
