package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/domain/ticketing"
	"github.com/fieldserve/backend/internal/infrastructure/cache"
)

// Aging threshold: open/assigned tickets older than this many days are
// flagged on the ticket report.
const agingThresholdDays = 3

// Cap on the number of aging tickets returned
const agingTicketLimit = 10

// Upper bound for the bulk collection reads backing a report
const bulkReadLimit = 10000

// ReportService produces the aggregated reports. Every report follows
// the same shape: authorize, bulk-read, fold in memory, cache under the
// reports tag. Unauthorized callers get an empty result, not an error.
type ReportService struct {
	ticketRepo   ticketing.TicketRepository
	workLogRepo  ticketing.WorkLogRepository
	machineRepo  registry.MachineRepository
	customerRepo registry.CustomerRepository
	userRepo     identity.UserRepository
	cache        cache.TagCache
	logger       *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	ticketRepo ticketing.TicketRepository,
	workLogRepo ticketing.WorkLogRepository,
	machineRepo registry.MachineRepository,
	customerRepo registry.CustomerRepository,
	userRepo identity.UserRepository,
	tagCache cache.TagCache,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		ticketRepo:   ticketRepo,
		workLogRepo:  workLogRepo,
		machineRepo:  machineRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		cache:        tagCache,
		logger:       logger,
	}
}

// TechnicianMetrics reports per-technician ticket counts, hours and revenue
func (s *ReportService) TechnicianMetrics(ctx context.Context, actor *identity.User) (*TechnicianMetrics, error) {
	if !actor.Role.CanViewReports() {
		return &TechnicianMetrics{Technicians: []TechnicianReport{}, GeneratedAt: time.Now()}, nil
	}

	const cacheKey = "reports:technicians"
	var cached TechnicianMetrics
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	technicians, err := s.userRepo.FindTechnicians(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := s.ticketRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}
	logs, err := s.workLogRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}

	reports := make(map[uuid.UUID]*TechnicianReport, len(technicians))
	for i := range technicians {
		tech := &technicians[i]
		reports[tech.ID] = &TechnicianReport{
			TechnicianID: tech.ID,
			Name:         tech.Name,
			Revenue:      decimal.Zero,
		}
	}

	for i := range tickets {
		ticket := &tickets[i]
		if ticket.AssignedTo == nil {
			continue
		}
		report, ok := reports[*ticket.AssignedTo]
		if !ok {
			continue
		}
		switch ticket.Status {
		case ticketing.TicketStatusAssigned:
			report.AssignedTickets++
		case ticketing.TicketStatusClosed:
			report.ClosedTickets++
		}
	}

	ratesByID := make(map[uuid.UUID]*decimal.Decimal, len(technicians))
	for i := range technicians {
		ratesByID[technicians[i].ID] = technicians[i].ChargeoutRate
	}
	for i := range logs {
		log := &logs[i]
		report, ok := reports[log.RecordedBy]
		if !ok {
			continue
		}
		report.TotalHours += log.HoursWorked
		if rate := ratesByID[log.RecordedBy]; rate != nil {
			report.Revenue = report.Revenue.Add(decimal.NewFromFloat(log.HoursWorked).Mul(*rate))
		}
	}

	result := &TechnicianMetrics{
		Technicians: make([]TechnicianReport, 0, len(reports)),
		GeneratedAt: time.Now(),
	}
	for _, report := range reports {
		result.Technicians = append(result.Technicians, *report)
	}
	sort.Slice(result.Technicians, func(i, j int) bool {
		return result.Technicians[i].Name < result.Technicians[j].Name
	})

	s.store(ctx, cacheKey, result)
	return result, nil
}

// TicketMetrics reports ticket volumes, resolution time and aging tickets
func (s *ReportService) TicketMetrics(ctx context.Context, actor *identity.User) (*TicketMetrics, error) {
	if !actor.Role.CanViewReports() {
		return emptyTicketMetrics(), nil
	}

	const cacheKey = "reports:tickets"
	var cached TicketMetrics
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	tickets, err := s.ticketRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}

	result := emptyTicketMetrics()
	result.TotalTickets = len(tickets)

	var resolutionHours float64
	var closed int
	now := time.Now()
	aging := make([]AgingTicket, 0)

	for i := range tickets {
		ticket := &tickets[i]
		result.ByStatus[ticket.Status.String()]++
		for _, machine := range ticket.Machines {
			result.ByPriority[machine.Priority.String()]++
		}

		if ticket.IsClosed() && ticket.ClosedAt != nil {
			resolutionHours += ticket.ClosedAt.Sub(ticket.CreatedAt).Hours()
			closed++
			continue
		}

		daysOpen := int(now.Sub(ticket.CreatedAt).Hours() / 24)
		if daysOpen > agingThresholdDays {
			aging = append(aging, AgingTicket{
				TicketID:     ticket.ID,
				TicketNumber: ticket.TicketNumber,
				Status:       ticket.Status.String(),
				DaysOpen:     daysOpen,
				CreatedAt:    ticket.CreatedAt,
			})
		}
	}

	if closed > 0 {
		result.AvgResolutionHours = resolutionHours / float64(closed)
	}

	sort.Slice(aging, func(i, j int) bool { return aging[i].DaysOpen > aging[j].DaysOpen })
	if len(aging) > agingTicketLimit {
		aging = aging[:agingTicketLimit]
	}
	result.AgingTickets = aging

	s.store(ctx, cacheKey, result)
	return result, nil
}

// CustomerMetrics reports per-customer ticket, machine and hour totals
func (s *ReportService) CustomerMetrics(ctx context.Context, actor *identity.User) (*CustomerMetrics, error) {
	if !actor.Role.CanViewReports() {
		return &CustomerMetrics{Customers: []CustomerReport{}, GeneratedAt: time.Now()}, nil
	}

	const cacheKey = "reports:customers"
	var cached CustomerMetrics
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	customers, err := s.customerRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}
	machines, err := s.machineRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}
	tickets, err := s.ticketRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}
	logs, err := s.workLogRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}

	reports := make(map[uuid.UUID]*CustomerReport, len(customers))
	for i := range customers {
		customer := &customers[i]
		reports[customer.ID] = &CustomerReport{
			CustomerID:  customer.ID,
			CompanyName: customer.CompanyName,
		}
	}

	for i := range machines {
		if report, ok := reports[machines[i].CustomerID]; ok {
			report.MachineCount++
		}
	}

	// Ticket hours attribute to the customer via the machine snapshot on
	// the owning ticket, so historical ownership is preserved.
	customerByTicketMachine := make(map[uuid.UUID]map[uuid.UUID]uuid.UUID, len(tickets))
	for i := range tickets {
		ticket := &tickets[i]
		seen := make(map[uuid.UUID]struct{})
		byMachine := make(map[uuid.UUID]uuid.UUID, len(ticket.Machines))
		for _, machine := range ticket.Machines {
			byMachine[machine.MachineID] = machine.CustomerID
			if _, dup := seen[machine.CustomerID]; dup {
				continue
			}
			seen[machine.CustomerID] = struct{}{}
			if report, ok := reports[machine.CustomerID]; ok {
				report.TicketCount++
			}
		}
		customerByTicketMachine[ticket.ID] = byMachine
	}

	for i := range logs {
		log := &logs[i]
		byMachine, ok := customerByTicketMachine[log.TicketID]
		if !ok {
			continue
		}
		customerID, ok := byMachine[log.MachineID]
		if !ok {
			continue
		}
		if report, ok := reports[customerID]; ok {
			report.TotalHours += log.HoursWorked
		}
	}

	result := &CustomerMetrics{
		Customers:   make([]CustomerReport, 0, len(reports)),
		GeneratedAt: time.Now(),
	}
	for _, report := range reports {
		result.Customers = append(result.Customers, *report)
	}
	sort.Slice(result.Customers, func(i, j int) bool {
		return result.Customers[i].CompanyName < result.Customers[j].CompanyName
	})

	s.store(ctx, cacheKey, result)
	return result, nil
}

// EquipmentMetrics reports service activity per machine type
func (s *ReportService) EquipmentMetrics(ctx context.Context, actor *identity.User) (*EquipmentMetrics, error) {
	if !actor.Role.CanViewReports() {
		return &EquipmentMetrics{Equipment: []EquipmentReport{}, GeneratedAt: time.Now()}, nil
	}

	const cacheKey = "reports:equipment"
	var cached EquipmentMetrics
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	machines, err := s.machineRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}
	tickets, err := s.ticketRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}
	logs, err := s.workLogRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}

	reports := make(map[string]*EquipmentReport)
	report := func(machineType registry.MachineType) *EquipmentReport {
		key := machineType.String()
		if r, ok := reports[key]; ok {
			return r
		}
		r := &EquipmentReport{MachineType: key}
		reports[key] = r
		return r
	}

	for i := range machines {
		report(machines[i].Type).MachineCount++
	}
	for i := range tickets {
		for _, machine := range tickets[i].Machines {
			report(machine.MachineType).TicketCount++
		}
	}
	for i := range logs {
		r := report(logs[i].MachineType)
		r.WorkLogCount++
		r.TotalHours += logs[i].HoursWorked
	}

	result := &EquipmentMetrics{
		Equipment:   make([]EquipmentReport, 0, len(reports)),
		GeneratedAt: time.Now(),
	}
	for _, r := range reports {
		result.Equipment = append(result.Equipment, *r)
	}
	sort.Slice(result.Equipment, func(i, j int) bool {
		return result.Equipment[i].MachineType < result.Equipment[j].MachineType
	})

	s.store(ctx, cacheKey, result)
	return result, nil
}

// RevenueMetrics reports revenue, cost, profit and margin over all
// logged hours, using decimal math on the technician rates.
func (s *ReportService) RevenueMetrics(ctx context.Context, actor *identity.User) (*RevenueMetrics, error) {
	if !actor.Role.CanViewReports() {
		return emptyRevenueMetrics(), nil
	}

	const cacheKey = "reports:revenue"
	var cached RevenueMetrics
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	technicians, err := s.userRepo.FindTechnicians(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.workLogRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}

	techByID := make(map[uuid.UUID]*identity.User, len(technicians))
	perTech := make(map[uuid.UUID]*TechnicianRevenue, len(technicians))
	for i := range technicians {
		tech := &technicians[i]
		techByID[tech.ID] = tech
		perTech[tech.ID] = &TechnicianRevenue{
			TechnicianID: tech.ID,
			Name:         tech.Name,
			Revenue:      decimal.Zero,
			Cost:         decimal.Zero,
			Profit:       decimal.Zero,
		}
	}

	result := emptyRevenueMetrics()
	for i := range logs {
		log := &logs[i]
		tech, ok := techByID[log.RecordedBy]
		if !ok {
			continue
		}
		entry := perTech[tech.ID]
		entry.Hours += log.HoursWorked

		hours := decimal.NewFromFloat(log.HoursWorked)
		if tech.ChargeoutRate != nil {
			revenue := hours.Mul(*tech.ChargeoutRate)
			entry.Revenue = entry.Revenue.Add(revenue)
			result.TotalRevenue = result.TotalRevenue.Add(revenue)
		}
		if tech.InternalPayRate != nil {
			cost := hours.Mul(*tech.InternalPayRate)
			entry.Cost = entry.Cost.Add(cost)
			result.TotalCost = result.TotalCost.Add(cost)
		}
	}

	result.Profit = result.TotalRevenue.Sub(result.TotalCost)
	if !result.TotalRevenue.IsZero() {
		result.Margin = result.Profit.DivRound(result.TotalRevenue, 4)
	}

	for _, entry := range perTech {
		entry.Profit = entry.Revenue.Sub(entry.Cost)
		result.PerTechnician = append(result.PerTechnician, *entry)
	}
	sort.Slice(result.PerTechnician, func(i, j int) bool {
		return result.PerTechnician[i].Name < result.PerTechnician[j].Name
	})
	result.GeneratedAt = time.Now()

	s.store(ctx, cacheKey, result)
	return result, nil
}

// ServiceQualityMetrics reports the first-time-fix rate and resolution
// statistics. A closed ticket counts as a first-time fix when every
// machine's log recorded a departure time, work performed and outcome.
func (s *ReportService) ServiceQualityMetrics(ctx context.Context, actor *identity.User) (*ServiceQualityMetrics, error) {
	if !actor.Role.CanViewReports() {
		return &ServiceQualityMetrics{GeneratedAt: time.Now()}, nil
	}

	const cacheKey = "reports:quality"
	var cached ServiceQualityMetrics
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	tickets, err := s.ticketRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}
	logs, err := s.workLogRepo.FindAll(ctx, bulkFilter())
	if err != nil {
		return nil, err
	}

	logsByTicketMachine := make(map[uuid.UUID]map[uuid.UUID]*ticketing.WorkLog)
	var totalHours float64
	for i := range logs {
		log := &logs[i]
		byMachine, ok := logsByTicketMachine[log.TicketID]
		if !ok {
			byMachine = make(map[uuid.UUID]*ticketing.WorkLog)
			logsByTicketMachine[log.TicketID] = byMachine
		}
		byMachine[log.MachineID] = log
		totalHours += log.HoursWorked
	}

	result := &ServiceQualityMetrics{GeneratedAt: time.Now()}
	var resolutionHours float64

	for i := range tickets {
		ticket := &tickets[i]
		if !ticket.IsClosed() {
			continue
		}
		result.ClosedTickets++
		if ticket.ClosedAt != nil {
			resolutionHours += ticket.ClosedAt.Sub(ticket.CreatedAt).Hours()
		}

		byMachine := logsByTicketMachine[ticket.ID]
		firstTimeFix := len(ticket.Machines) > 0
		for _, machine := range ticket.Machines {
			log, ok := byMachine[machine.MachineID]
			if !ok || !log.IsFirstTimeFix() {
				firstTimeFix = false
				break
			}
		}
		if firstTimeFix {
			result.FirstTimeFixes++
		}
	}

	if result.ClosedTickets > 0 {
		result.FirstTimeFixRate = float64(result.FirstTimeFixes) / float64(result.ClosedTickets)
		result.AvgResolutionHours = resolutionHours / float64(result.ClosedTickets)
	}
	if len(logs) > 0 {
		result.AvgHoursPerVisit = totalHours / float64(len(logs))
	}

	s.store(ctx, cacheKey, result)
	return result, nil
}

func (s *ReportService) store(ctx context.Context, key string, value any) {
	if err := s.cache.SetJSON(ctx, key, value, cache.TagReports); err != nil {
		s.logger.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
	}
}

func bulkFilter() shared.Filter {
	return shared.Filter{
		Page:     1,
		PageSize: bulkReadLimit,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

func emptyTicketMetrics() *TicketMetrics {
	return &TicketMetrics{
		ByStatus:     make(map[string]int),
		ByPriority:   make(map[string]int),
		AgingTickets: []AgingTicket{},
		GeneratedAt:  time.Now(),
	}
}

func emptyRevenueMetrics() *RevenueMetrics {
	return &RevenueMetrics{
		TotalRevenue:  decimal.Zero,
		TotalCost:     decimal.Zero,
		Profit:        decimal.Zero,
		Margin:        decimal.Zero,
		PerTechnician: []TechnicianRevenue{},
		GeneratedAt:   time.Now(),
	}
}
