package ticketing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/domain/ticketing"
	"github.com/fieldserve/backend/internal/infrastructure/cache"
)

// StatsNotifier receives ticket lifecycle notifications used to maintain
// the denormalized call admin statistics. Notifications are best-effort:
// the ticket service logs failures and never fails the ticket operation.
type StatsNotifier interface {
	OnTicketCreated(ctx context.Context, ticket *ticketing.Ticket) error
	OnStatusChanged(ctx context.Context, creatorID uuid.UUID, oldStatus, newStatus ticketing.TicketStatus) error
}

// TicketService handles ticket lifecycle use cases
type TicketService struct {
	ticketRepo   ticketing.TicketRepository
	workLogRepo  ticketing.WorkLogRepository
	machineRepo  registry.MachineRepository
	customerRepo registry.CustomerRepository
	userRepo     identity.UserRepository
	stats        StatsNotifier
	cache        cache.TagCache
	logger       *zap.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(
	ticketRepo ticketing.TicketRepository,
	workLogRepo ticketing.WorkLogRepository,
	machineRepo registry.MachineRepository,
	customerRepo registry.CustomerRepository,
	userRepo identity.UserRepository,
	stats StatsNotifier,
	tagCache cache.TagCache,
	logger *zap.Logger,
) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		ticketRepo:   ticketRepo,
		workLogRepo:  workLogRepo,
		machineRepo:  machineRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		stats:        stats,
		cache:        tagCache,
		logger:       logger,
	}
}

// Create creates a new ticket with machine snapshots resolved from the
// registry. Only admins, call admins and management may create tickets.
func (s *TicketService) Create(ctx context.Context, actor *identity.User, req CreateTicketRequest) (*TicketResponse, error) {
	if !actor.Role.CanManageTickets() {
		return nil, shared.ErrUnauthorized
	}

	snapshots, err := s.resolveSnapshots(ctx, req.Machines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sequence, err := s.nextDailySequence(ctx, now)
	if err != nil {
		return nil, err
	}

	ticket, err := ticketing.NewTicket(
		ticketing.FormatTicketNumber(now, sequence),
		actor.ID,
		snapshots,
		req.IssueDescription,
		req.ContactPerson,
	)
	if err != nil {
		return nil, err
	}
	ticket.AdditionalNotes = req.AdditionalNotes
	if req.ScheduledVisitDate != nil {
		ticket.ScheduleVisit(req.ScheduledVisitDate)
	}

	if req.AssignedTo != nil {
		technician, err := s.findTechnician(ctx, *req.AssignedTo)
		if err != nil {
			return nil, err
		}
		if err := ticket.Assign(technician.ID, technician.Name); err != nil {
			return nil, err
		}
	}

	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}

	if err := s.stats.OnTicketCreated(ctx, ticket); err != nil {
		s.logger.Warn("failed to update creator stats",
			zap.String("ticket_id", ticket.ID.String()),
			zap.Error(err),
		)
	}

	s.invalidate(ctx, cache.TagTickets, cache.TagReports, cache.TagTechnicians, cache.CallAdminTag(actor.ID.String()))

	response := ToTicketResponse(ticket)
	return &response, nil
}

// GetByID returns a single ticket
func (s *TicketService) GetByID(ctx context.Context, id uuid.UUID) (*TicketResponse, error) {
	cacheKey := "tickets:" + id.String()

	var cached TicketResponse
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToTicketResponse(ticket)
	if err := s.cache.SetJSON(ctx, cacheKey, response, cache.TagTickets); err != nil {
		s.logger.Warn("failed to cache ticket", zap.String("ticket_id", id.String()), zap.Error(err))
	}
	return &response, nil
}

// GetByNumber returns a single ticket by its human-readable number
func (s *TicketService) GetByNumber(ctx context.Context, ticketNumber string) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	response := ToTicketResponse(ticket)
	return &response, nil
}

// List returns a paginated ticket list. Technicians only ever see the
// tickets assigned to them, regardless of the requested filter.
func (s *TicketService) List(ctx context.Context, actor *identity.User, filter TicketListFilter) (*shared.Paginated[TicketResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search

	if filter.Status != nil {
		f.Filters["status"] = *filter.Status
	}
	if filter.AssignedTo != nil {
		f.Filters["assigned_to"] = *filter.AssignedTo
	}
	if actor.IsTechnician() {
		f.Filters["assigned_to"] = actor.ID
	}
	if filter.StartDate != nil {
		f.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		f.Filters["end_date"] = *filter.EndDate
	}

	tickets, err := s.ticketRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.ticketRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	responses := make([]TicketResponse, len(tickets))
	for i := range tickets {
		responses[i] = ToTicketResponse(&tickets[i])
	}

	result := shared.NewPaginated(responses, total, f.Page, f.PageSize)
	return &result, nil
}

// Update applies an admin-side partial update. Setting an assignee
// without an explicit status moves the ticket to Assigned; explicit
// status changes go through the regular state machine, including the
// work-log completeness check before closing.
func (s *TicketService) Update(ctx context.Context, actor *identity.User, id uuid.UUID, req UpdateTicketRequest) (*TicketResponse, error) {
	if !actor.Role.CanManageTickets() {
		return nil, shared.ErrUnauthorized
	}

	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status

	if req.IssueDescription != nil || req.ContactPerson != nil || req.AdditionalNotes != nil {
		description := ticket.IssueDescription
		if req.IssueDescription != nil {
			description = *req.IssueDescription
		}
		contact := ticket.ContactPerson
		if req.ContactPerson != nil {
			contact = *req.ContactPerson
		}
		notes := ticket.AdditionalNotes
		if req.AdditionalNotes != nil {
			notes = *req.AdditionalNotes
		}
		if err := ticket.UpdateDetails(description, contact, notes); err != nil {
			return nil, err
		}
	}

	if req.ClearScheduledDate {
		ticket.ScheduleVisit(nil)
	} else if req.ScheduledVisitDate != nil {
		ticket.ScheduleVisit(req.ScheduledVisitDate)
	}

	if req.AssignedTo != nil {
		technician, err := s.findTechnician(ctx, *req.AssignedTo)
		if err != nil {
			return nil, err
		}
		if err := ticket.Assign(technician.ID, technician.Name); err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		switch ticketing.TicketStatus(*req.Status) {
		case ticketing.TicketStatusOpen:
			if ticket.Status != ticketing.TicketStatusOpen {
				if err := ticket.Unassign(); err != nil {
					return nil, err
				}
			}
		case ticketing.TicketStatusAssigned:
			if ticket.AssignedTo == nil {
				return nil, shared.NewDomainError("NO_ASSIGNEE", "Cannot move a ticket to Assigned without a technician")
			}
		case ticketing.TicketStatusClosed:
			if ticket.Status != ticketing.TicketStatusClosed {
				if err := s.closeTicket(ctx, ticket); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, ticket, oldStatus)
	s.invalidateForTicket(ctx, ticket)

	response := ToTicketResponse(ticket)
	return &response, nil
}

// Close closes a ticket. Only the assigned technician may close it, and
// every machine on the ticket must have complete work details logged.
func (s *TicketService) Close(ctx context.Context, actor *identity.User, id uuid.UUID) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ticket.IsAssignedTo(actor.ID) {
		return nil, shared.NewDomainError("TICKET_NOT_ASSIGNED", "ticket is not assigned to you")
	}
	oldStatus := ticket.Status

	if err := s.closeTicket(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, ticket, oldStatus)
	s.invalidateForTicket(ctx, ticket)

	response := ToTicketResponse(ticket)
	return &response, nil
}

// TechnicianUpdate applies the technician-side partial update. Setting a
// departure time stamps it onto every work log of the ticket and closes
// the ticket through the same completeness check as an explicit close.
func (s *TicketService) TechnicianUpdate(ctx context.Context, actor *identity.User, id uuid.UUID, req TechnicianUpdateRequest) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ticket.IsAssignedTo(actor.ID) {
		return nil, shared.NewDomainError("TICKET_NOT_ASSIGNED", "ticket is not assigned to you")
	}
	oldStatus := ticket.Status

	if req.AdditionalNotes != nil {
		if err := ticket.UpdateDetails(ticket.IssueDescription, ticket.ContactPerson, *req.AdditionalNotes); err != nil {
			return nil, err
		}
	}
	if req.ScheduledVisitDate != nil {
		ticket.ScheduleVisit(req.ScheduledVisitDate)
	}

	if req.DepartureTime != nil {
		if err := s.stampDeparture(ctx, ticket, *req.DepartureTime); err != nil {
			return nil, err
		}
		if err := s.closeTicket(ctx, ticket); err != nil {
			return nil, err
		}
	}

	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, ticket, oldStatus)
	s.invalidateForTicket(ctx, ticket)
	if req.DepartureTime != nil {
		s.invalidate(ctx, cache.TagWorkLogs, cache.TicketWorkLogsTag(ticket.ID.String()))
	}

	response := ToTicketResponse(ticket)
	return &response, nil
}

// resolveSnapshots loads machines and their owning customers and builds
// the embedded machine snapshots for a new ticket.
func (s *TicketService) resolveSnapshots(ctx context.Context, inputs []TicketMachineInput) ([]ticketing.TicketMachine, error) {
	machineIDs := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	for _, input := range inputs {
		if _, dup := seen[input.MachineID]; dup {
			return nil, shared.NewDomainError("DUPLICATE_MACHINE", "Each machine may appear on a ticket only once")
		}
		seen[input.MachineID] = struct{}{}
		machineIDs = append(machineIDs, input.MachineID)
	}

	machines, err := s.machineRepo.FindByIDs(ctx, machineIDs)
	if err != nil {
		return nil, err
	}
	machinesByID := make(map[uuid.UUID]*registry.Machine, len(machines))
	customerIDs := make([]uuid.UUID, 0, len(machines))
	for i := range machines {
		machinesByID[machines[i].ID] = &machines[i]
		customerIDs = append(customerIDs, machines[i].CustomerID)
	}

	customers, err := s.customerRepo.FindByIDs(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	customersByID := make(map[uuid.UUID]*registry.Customer, len(customers))
	for i := range customers {
		customersByID[customers[i].ID] = &customers[i]
	}

	snapshots := make([]ticketing.TicketMachine, 0, len(inputs))
	for _, input := range inputs {
		machine, ok := machinesByID[input.MachineID]
		if !ok {
			return nil, shared.NewDomainError("MACHINE_NOT_FOUND", "Machine not found")
		}
		customer, ok := customersByID[machine.CustomerID]
		if !ok {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Machine owner not found")
		}
		snapshot, err := ticketing.NewTicketMachine(machine, customer, ticketing.Priority(input.Priority))
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// nextDailySequence derives the 1-based daily ticket sequence from the
// count of tickets already created today.
func (s *TicketService) nextDailySequence(ctx context.Context, now time.Time) (int, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := s.ticketRepo.CountCreatedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

func (s *TicketService) findTechnician(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TECHNICIAN_NOT_FOUND", "Technician not found")
		}
		return nil, err
	}
	if !user.IsTechnician() || user.Disabled {
		return nil, shared.NewDomainError("NOT_A_TECHNICIAN", "Tickets can only be assigned to active technicians")
	}
	return user, nil
}

// closeTicket verifies every machine snapshot has a complete work log,
// then runs the single close transition.
func (s *TicketService) closeTicket(ctx context.Context, ticket *ticketing.Ticket) error {
	for _, machine := range ticket.Machines {
		log, err := s.workLogRepo.FindByTicketAndMachine(ctx, ticket.ID, machine.MachineID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("WORK_DETAILS_MISSING", "All machines must have work details logged before closing")
			}
			return err
		}
		if !log.IsComplete() {
			return shared.NewDomainError("WORK_DETAILS_MISSING", "All machines must have work details logged before closing")
		}
	}
	return ticket.Close()
}

// stampDeparture applies the departure time to every work log of the
// ticket atomically.
func (s *TicketService) stampDeparture(ctx context.Context, ticket *ticketing.Ticket, departure time.Time) error {
	logs, err := s.workLogRepo.FindByTicket(ctx, ticket.ID)
	if err != nil {
		return err
	}
	updated := make([]*ticketing.WorkLog, 0, len(logs))
	for i := range logs {
		log := &logs[i]
		if err := log.RecordVisit(log.ArrivalTime, &departure, log.HoursWorked); err != nil {
			return err
		}
		updated = append(updated, log)
	}
	return s.workLogRepo.SaveBatch(ctx, updated)
}

func (s *TicketService) notifyStatusChange(ctx context.Context, ticket *ticketing.Ticket, oldStatus ticketing.TicketStatus) {
	if ticket.Status == oldStatus {
		return
	}
	creator := ticket.GetCreatedBy()
	if creator == nil {
		return
	}
	if err := s.stats.OnStatusChanged(ctx, *creator, oldStatus, ticket.Status); err != nil {
		s.logger.Warn("failed to update creator stats",
			zap.String("ticket_id", ticket.ID.String()),
			zap.String("old_status", oldStatus.String()),
			zap.String("new_status", ticket.Status.String()),
			zap.Error(err),
		)
	}
}

func (s *TicketService) invalidateForTicket(ctx context.Context, ticket *ticketing.Ticket) {
	tags := []string{cache.TagTickets, cache.TagReports, cache.TagTechnicians}
	if creator := ticket.GetCreatedBy(); creator != nil {
		tags = append(tags, cache.CallAdminTag(creator.String()))
	}
	s.invalidate(ctx, tags...)
}

func (s *TicketService) invalidate(ctx context.Context, tags ...string) {
	if err := s.cache.Invalidate(ctx, tags...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("tags", tags), zap.Error(err))
	}
}
