package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/ticketing"
)

// StatsService maintains the denormalized ticket statistics kept on
// call admin users. All updates run through the repository's locked
// read-modify-write so concurrent ticket operations cannot lose counts.
//
// Stats maintenance is best-effort: callers treat errors from this
// service as log-and-continue, never as a reason to fail the ticket
// operation that triggered the update.
type StatsService struct {
	userRepo   identity.UserRepository
	ticketRepo ticketing.TicketRepository
	logger     *zap.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(userRepo identity.UserRepository, ticketRepo ticketing.TicketRepository, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		userRepo:   userRepo,
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

// OnTicketCreated applies the create-path increments to the creator's
// stats. Users who are not call admins are skipped silently.
func (s *StatsService) OnTicketCreated(ctx context.Context, ticket *ticketing.Ticket) error {
	creatorID := ticket.GetCreatedBy()
	if creatorID == nil {
		return nil
	}

	isCallAdmin, err := s.isCallAdmin(ctx, *creatorID)
	if err != nil || !isCallAdmin {
		return err
	}

	tally := ticket.PriorityTally()
	createdAt := ticket.CreatedAt
	status := ticket.Status

	return s.userRepo.UpdateStats(ctx, *creatorID, func(stats *identity.CallAdminStats) error {
		stats.TotalTickets++
		incrementStatusBucket(stats, status)
		stats.UrgentPriority += tally[ticketing.PriorityUrgent]
		stats.HighPriority += tally[ticketing.PriorityHigh]
		stats.MediumPriority += tally[ticketing.PriorityMedium]
		stats.LowPriority += tally[ticketing.PriorityLow]
		refreshDerived(stats)

		if stats.FirstTicketDate == nil {
			first := createdAt
			stats.FirstTicketDate = &first
		}
		last := createdAt
		stats.LastTicketDate = &last

		return nil
	})
}

// OnStatusChanged moves one ticket between the creator's status
// buckets. The old bucket is clamped at zero so a drifted counter can
// never go negative.
func (s *StatsService) OnStatusChanged(ctx context.Context, creatorID uuid.UUID, oldStatus, newStatus ticketing.TicketStatus) error {
	if oldStatus == newStatus {
		return nil
	}

	isCallAdmin, err := s.isCallAdmin(ctx, creatorID)
	if err != nil || !isCallAdmin {
		return err
	}

	return s.userRepo.UpdateStats(ctx, creatorID, func(stats *identity.CallAdminStats) error {
		decrementStatusBucket(stats, oldStatus)
		incrementStatusBucket(stats, newStatus)
		refreshDerived(stats)
		return nil
	})
}

// Recalculate rebuilds a call admin's stats from scratch by folding over
// every ticket they created. Used to repair drift.
func (s *StatsService) Recalculate(ctx context.Context, userID uuid.UUID) error {
	isCallAdmin, err := s.isCallAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isCallAdmin {
		return nil
	}

	tickets, err := s.ticketRepo.FindByCreator(ctx, userID)
	if err != nil {
		return err
	}

	fresh := identity.CallAdminStats{}
	for i := range tickets {
		ticket := &tickets[i]
		fresh.TotalTickets++
		incrementStatusBucket(&fresh, ticket.Status)

		tally := ticket.PriorityTally()
		fresh.UrgentPriority += tally[ticketing.PriorityUrgent]
		fresh.HighPriority += tally[ticketing.PriorityHigh]
		fresh.MediumPriority += tally[ticketing.PriorityMedium]
		fresh.LowPriority += tally[ticketing.PriorityLow]

		createdAt := ticket.CreatedAt
		if fresh.FirstTicketDate == nil || createdAt.Before(*fresh.FirstTicketDate) {
			first := createdAt
			fresh.FirstTicketDate = &first
		}
		if fresh.LastTicketDate == nil || createdAt.After(*fresh.LastTicketDate) {
			last := createdAt
			fresh.LastTicketDate = &last
		}
	}
	refreshDerived(&fresh)

	s.logger.Info("recalculated call admin stats",
		zap.String("user_id", userID.String()),
		zap.Int("total_tickets", fresh.TotalTickets),
	)

	return s.userRepo.UpdateStats(ctx, userID, func(stats *identity.CallAdminStats) error {
		*stats = fresh
		return nil
	})
}

func (s *StatsService) isCallAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsCallAdmin(), nil
}

func incrementStatusBucket(stats *identity.CallAdminStats, status ticketing.TicketStatus) {
	switch status {
	case ticketing.TicketStatusOpen:
		stats.OpenTickets++
	case ticketing.TicketStatusAssigned:
		stats.AssignedTickets++
	case ticketing.TicketStatusClosed:
		stats.ClosedTickets++
	}
}

func decrementStatusBucket(stats *identity.CallAdminStats, status ticketing.TicketStatus) {
	switch status {
	case ticketing.TicketStatusOpen:
		stats.OpenTickets = clampZero(stats.OpenTickets - 1)
	case ticketing.TicketStatusAssigned:
		stats.AssignedTickets = clampZero(stats.AssignedTickets - 1)
	case ticketing.TicketStatusClosed:
		stats.ClosedTickets = clampZero(stats.ClosedTickets - 1)
	}
}

func refreshDerived(stats *identity.CallAdminStats) {
	stats.ActiveTickets = stats.OpenTickets + stats.AssignedTickets
	stats.UpdatedAt = time.Now()
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
