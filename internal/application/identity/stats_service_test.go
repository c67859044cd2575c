package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/ticketing"
)

func newCallAdmin(t *testing.T) *identity.User {
	user, err := identity.NewUser("Dispatch", "dispatch@example.com", "password123", identity.RoleCallAdmin)
	require.NoError(t, err)
	return user
}

func newStatsTicket(t *testing.T, createdBy uuid.UUID, priority ticketing.Priority) *ticketing.Ticket {
	customer, err := registry.NewCustomer("Bean There Coffee", "Ann Droid", "07000000001", "1 Roast Lane")
	require.NoError(t, err)
	machine, err := registry.NewMachine(customer.ID, registry.MachineTypeEspresso, "SN-1000")
	require.NoError(t, err)
	snapshot, err := ticketing.NewTicketMachine(machine, customer, priority)
	require.NoError(t, err)

	number := ticketing.FormatTicketNumber(time.Now(), 1)
	ticket, err := ticketing.NewTicket(number, createdBy, []ticketing.TicketMachine{snapshot}, "Boiler not reaching temperature", "Ann Droid")
	require.NoError(t, err)
	return ticket
}

// expectStatsUpdate wires UpdateStats to run the mutation against held
// stats, mirroring the repository's locked read-modify-write.
func expectStatsUpdate(userRepo *MockUserRepository, id uuid.UUID, stats *identity.CallAdminStats) {
	userRepo.On("UpdateStats", mock.Anything, id, mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(*identity.CallAdminStats) error)
			_ = fn(stats)
		}).
		Return(nil)
}

func TestStatsService_OnTicketCreated(t *testing.T) {
	userRepo := new(MockUserRepository)
	ticketRepo := new(MockTicketRepository)
	svc := NewStatsService(userRepo, ticketRepo, zap.NewNop())

	admin := newCallAdmin(t)
	ticket := newStatsTicket(t, admin.ID, ticketing.PriorityUrgent)

	stats := &identity.CallAdminStats{}
	userRepo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
	expectStatsUpdate(userRepo, admin.ID, stats)

	err := svc.OnTicketCreated(context.Background(), ticket)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTickets)
	assert.Equal(t, 1, stats.OpenTickets)
	assert.Equal(t, 0, stats.AssignedTickets)
	assert.Equal(t, 1, stats.ActiveTickets)
	assert.Equal(t, 1, stats.UrgentPriority)
	require.NotNil(t, stats.FirstTicketDate)
	require.NotNil(t, stats.LastTicketDate)
	assert.Equal(t, ticket.CreatedAt, *stats.FirstTicketDate)
}

func TestStatsService_OnTicketCreated_PreAssignedCountsAssigned(t *testing.T) {
	userRepo := new(MockUserRepository)
	ticketRepo := new(MockTicketRepository)
	svc := NewStatsService(userRepo, ticketRepo, zap.NewNop())

	admin := newCallAdmin(t)
	ticket := newStatsTicket(t, admin.ID, ticketing.PriorityLow)
	require.NoError(t, ticket.Assign(uuid.New(), "Field Tech"))

	stats := &identity.CallAdminStats{}
	userRepo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
	expectStatsUpdate(userRepo, admin.ID, stats)

	require.NoError(t, svc.OnTicketCreated(context.Background(), ticket))

	assert.Equal(t, 0, stats.OpenTickets)
	assert.Equal(t, 1, stats.AssignedTickets)
	assert.Equal(t, 1, stats.ActiveTickets)
	assert.Equal(t, 1, stats.LowPriority)
}

func TestStatsService_OnTicketCreated_FirstDateOnlySetOnce(t *testing.T) {
	userRepo := new(MockUserRepository)
	ticketRepo := new(MockTicketRepository)
	svc := NewStatsService(userRepo, ticketRepo, zap.NewNop())

	admin := newCallAdmin(t)
	ticket := newStatsTicket(t, admin.ID, ticketing.PriorityMedium)

	first := time.Now().Add(-48 * time.Hour)
	stats := &identity.CallAdminStats{TotalTickets: 3, FirstTicketDate: &first}
	userRepo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
	expectStatsUpdate(userRepo, admin.ID, stats)

	require.NoError(t, svc.OnTicketCreated(context.Background(), ticket))

	assert.Equal(t, 4, stats.TotalTickets)
	assert.Equal(t, first, *stats.FirstTicketDate)
	assert.Equal(t, ticket.CreatedAt, *stats.LastTicketDate)
}

func TestStatsService_OnTicketCreated_SkipsNonCallAdmin(t *testing.T) {
	userRepo := new(MockUserRepository)
	ticketRepo := new(MockTicketRepository)
	svc := NewStatsService(userRepo, ticketRepo, zap.NewNop())

	admin, err := identity.NewUser("Root", "root@example.com", "password123", identity.RoleAdmin)
	require.NoError(t, err)
	ticket := newStatsTicket(t, admin.ID, ticketing.PriorityHigh)

	userRepo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)

	require.NoError(t, svc.OnTicketCreated(context.Background(), ticket))

	userRepo.AssertNotCalled(t, "UpdateStats", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatsService_OnStatusChanged(t *testing.T) {
	userRepo := new(MockUserRepository)
	ticketRepo := new(MockTicketRepository)
	svc := NewStatsService(userRepo, ticketRepo, zap.NewNop())

	admin := newCallAdmin(t)
	stats := &identity.CallAdminStats{TotalTickets: 2, OpenTickets: 1, AssignedTickets: 1, ActiveTickets: 2}
	userRepo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
	expectStatsUpdate(userRepo, admin.ID, stats)

	err := svc.OnStatusChanged(context.Background(), admin.ID, ticketing.TicketStatusAssigned, ticketing.TicketStatusClosed)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.OpenTickets)
	assert.Equal(t, 0, stats.AssignedTickets)
	assert.Equal(t, 1, stats.ClosedTickets)
	assert.Equal(t, 1, stats.ActiveTickets)
	assert.Equal(t, 2, stats.TotalTickets)
}

func TestStatsService_OnStatusChanged_ClampsAtZero(t *testing.T) {
	userRepo := new(MockUserRepository)
	ticketRepo := new(MockTicketRepository)
	svc := NewStatsService(userRepo, ticketRepo, zap.NewNop())

	admin := newCallAdmin(t)
	// Drifted counters: the old bucket is already zero
	stats := &identity.CallAdminStats{}
	userRepo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
	expectStatsUpdate(userRepo, admin.ID, stats)

	err := svc.OnStatusChanged(context.Background(), admin.ID, ticketing.TicketStatusOpen, ticketing.TicketStatusAssigned)

	require.NoError(t, err)
	assert.Equal(t, 0, stats.OpenTickets)
	assert.Equal(t, 1, stats.AssignedTickets)
	assert.Equal(t, 1, stats.ActiveTickets)
}

func TestStatsService_OnStatusChanged_NoOpWhenUnchanged(t *testing.T) {
	userRepo := new(MockUserRepository)
	ticketRepo := new(MockTicketRepository)
	svc := NewStatsService(userRepo, ticketRepo, zap.NewNop())

	err := svc.OnStatusChanged(context.Background(), uuid.New(), ticketing.TicketStatusOpen, ticketing.TicketStatusOpen)

	require.NoError(t, err)
	userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestStatsService_Recalculate(t *testing.T) {
	userRepo := new(MockUserRepository)
	ticketRepo := new(MockTicketRepository)
	svc := NewStatsService(userRepo, ticketRepo, zap.NewNop())

	admin := newCallAdmin(t)

	open := newStatsTicket(t, admin.ID, ticketing.PriorityUrgent)
	assigned := newStatsTicket(t, admin.ID, ticketing.PriorityHigh)
	require.NoError(t, assigned.Assign(uuid.New(), "Field Tech"))
	closed := newStatsTicket(t, admin.ID, ticketing.PriorityLow)
	require.NoError(t, closed.Assign(uuid.New(), "Field Tech"))
	require.NoError(t, closed.Close())

	// Stale counters that the rebuild must replace wholesale
	stats := &identity.CallAdminStats{TotalTickets: 99, OpenTickets: 42}

	userRepo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
	ticketRepo.On("FindByCreator", mock.Anything, admin.ID).
		Return([]ticketing.Ticket{*open, *assigned, *closed}, nil)
	expectStatsUpdate(userRepo, admin.ID, stats)

	err := svc.Recalculate(context.Background(), admin.ID)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTickets)
	assert.Equal(t, 1, stats.OpenTickets)
	assert.Equal(t, 1, stats.AssignedTickets)
	assert.Equal(t, 1, stats.ClosedTickets)
	assert.Equal(t, 2, stats.ActiveTickets)
	assert.Equal(t, 1, stats.UrgentPriority)
	assert.Equal(t, 1, stats.HighPriority)
	assert.Equal(t, 1, stats.LowPriority)
}

func TestStatsService_Recalculate_RepoError(t *testing.T) {
	userRepo := new(MockUserRepository)
	ticketRepo := new(MockTicketRepository)
	svc := NewStatsService(userRepo, ticketRepo, zap.NewNop())

	admin := newCallAdmin(t)
	userRepo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
	ticketRepo.On("FindByCreator", mock.Anything, admin.ID).
		Return(nil, errors.New("db down"))

	err := svc.Recalculate(context.Background(), admin.ID)

	assert.Error(t, err)
}
