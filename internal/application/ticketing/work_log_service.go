package ticketing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/domain/ticketing"
	"github.com/fieldserve/backend/internal/infrastructure/cache"
)

// WorkLogService handles work log use cases. Work logs follow a
// find-or-create model: the first submission for a (ticket, machine)
// pair creates the log, later submissions update it in place.
type WorkLogService struct {
	ticketRepo  ticketing.TicketRepository
	workLogRepo ticketing.WorkLogRepository
	cache       cache.TagCache
	logger      *zap.Logger
}

// NewWorkLogService creates a new WorkLogService
func NewWorkLogService(
	ticketRepo ticketing.TicketRepository,
	workLogRepo ticketing.WorkLogRepository,
	tagCache cache.TagCache,
	logger *zap.Logger,
) *WorkLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkLogService{
		ticketRepo:  ticketRepo,
		workLogRepo: workLogRepo,
		cache:       tagCache,
		logger:      logger,
	}
}

// AddEntry records work details for one machine on a ticket. Only the
// assigned technician may log work, and only while the ticket is open.
func (s *WorkLogService) AddEntry(ctx context.Context, actor *identity.User, ticketID uuid.UUID, req WorkLogEntryRequest) (*WorkLogResponse, error) {
	ticket, err := s.authorizedTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	log, err := s.upsertEntry(ctx, ticket, actor.ID, req)
	if err != nil {
		return nil, err
	}
	if err := s.workLogRepo.Save(ctx, log); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagWorkLogs, cache.TicketWorkLogsTag(ticketID.String()), cache.TagReports)

	response := ToWorkLogResponse(log)
	return &response, nil
}

// AddBulkEntries records one visit against several machines of a ticket.
// Arrival, departure and hours are shared across all entries and the
// whole batch is persisted atomically.
func (s *WorkLogService) AddBulkEntries(ctx context.Context, actor *identity.User, ticketID uuid.UUID, req BulkWorkLogRequest) ([]WorkLogResponse, error) {
	ticket, err := s.authorizedTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	logs := make([]*ticketing.WorkLog, 0, len(req.Machines))
	for _, machine := range req.Machines {
		entry := WorkLogEntryRequest{
			MachineID:                 machine.MachineID,
			ArrivalTime:               req.ArrivalTime,
			DepartureTime:             req.DepartureTime,
			HoursWorked:               req.HoursWorked,
			WorkPerformed:             machine.WorkPerformed,
			Outcome:                   machine.Outcome,
			Repairs:                   machine.Repairs,
			PartsUsed:                 machine.PartsUsed,
			MaintenanceRecommendation: machine.MaintenanceRecommendation,
		}
		log, err := s.upsertEntry(ctx, ticket, actor.ID, entry)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := s.workLogRepo.SaveBatch(ctx, logs); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagWorkLogs, cache.TicketWorkLogsTag(ticketID.String()), cache.TagReports)

	responses := make([]WorkLogResponse, len(logs))
	for i, log := range logs {
		responses[i] = ToWorkLogResponse(log)
	}
	return responses, nil
}

// ListForTicket returns all work logs of a ticket. Available to any
// authenticated user.
func (s *WorkLogService) ListForTicket(ctx context.Context, ticketID uuid.UUID) ([]WorkLogResponse, error) {
	cacheKey := "work_logs:ticket:" + ticketID.String()

	var cached []WorkLogResponse
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	logs, err := s.workLogRepo.FindByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	responses := make([]WorkLogResponse, len(logs))
	for i := range logs {
		responses[i] = ToWorkLogResponse(&logs[i])
	}

	if err := s.cache.SetJSON(ctx, cacheKey, responses, cache.TagWorkLogs, cache.TicketWorkLogsTag(ticketID.String())); err != nil {
		s.logger.Warn("failed to cache work logs", zap.String("ticket_id", ticketID.String()), zap.Error(err))
	}
	return responses, nil
}

// MachineHistory returns the service history of a machine across all
// tickets, most recent visit first.
func (s *WorkLogService) MachineHistory(ctx context.Context, machineID uuid.UUID) ([]WorkLogResponse, error) {
	logs, err := s.workLogRepo.FindByMachine(ctx, machineID)
	if err != nil {
		return nil, err
	}
	responses := make([]WorkLogResponse, len(logs))
	for i := range logs {
		responses[i] = ToWorkLogResponse(&logs[i])
	}
	return responses, nil
}

// authorizedTicket loads the ticket and enforces the technician gate
func (s *WorkLogService) authorizedTicket(ctx context.Context, actor *identity.User, ticketID uuid.UUID) (*ticketing.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.IsAssignedTo(actor.ID) {
		return nil, shared.NewDomainError("TICKET_NOT_ASSIGNED", "ticket is not assigned to you")
	}
	if ticket.IsClosed() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot log work on a closed ticket")
	}
	return ticket, nil
}

// upsertEntry finds the existing work log for the machine or creates a
// new one, then applies the submitted fields.
func (s *WorkLogService) upsertEntry(ctx context.Context, ticket *ticketing.Ticket, recordedBy uuid.UUID, req WorkLogEntryRequest) (*ticketing.WorkLog, error) {
	snapshot, ok := s.snapshotFor(ticket, req.MachineID)
	if !ok {
		return nil, shared.NewDomainError("MACHINE_NOT_ON_TICKET", "Machine is not part of this ticket")
	}

	log, err := s.workLogRepo.FindByTicketAndMachine(ctx, ticket.ID, req.MachineID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		log, err = ticketing.NewWorkLog(ticket.ID, snapshot, recordedBy, req.ArrivalTime)
		if err != nil {
			return nil, err
		}
	}

	if err := log.RecordVisit(req.ArrivalTime, req.DepartureTime, req.HoursWorked); err != nil {
		return nil, err
	}
	log.RecordWork(req.WorkPerformed, req.Outcome, req.Repairs)

	if req.PartsUsed != nil {
		parts := make([]ticketing.PartUsage, len(req.PartsUsed))
		for i, p := range req.PartsUsed {
			parts[i] = ticketing.PartUsage{PartID: p.PartID, PartName: p.PartName, Quantity: p.Quantity}
		}
		if err := log.SetPartsUsed(parts); err != nil {
			return nil, err
		}
	}
	if req.MaintenanceRecommendation != nil {
		log.Recommend(req.MaintenanceRecommendation.Date, req.MaintenanceRecommendation.Notes)
	}

	return log, nil
}

func (s *WorkLogService) snapshotFor(ticket *ticketing.Ticket, machineID uuid.UUID) (ticketing.TicketMachine, bool) {
	for _, m := range ticket.Machines {
		if m.MachineID == machineID {
			return m, true
		}
	}
	return ticketing.TicketMachine{}, false
}

func (s *WorkLogService) invalidate(ctx context.Context, tags ...string) {
	if err := s.cache.Invalidate(ctx, tags...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("tags", tags), zap.Error(err))
	}
}
