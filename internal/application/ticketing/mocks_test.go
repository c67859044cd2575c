package ticketing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/domain/ticketing"
)

// MockTicketRepository is a mock implementation of ticketing.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*ticketing.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByNumber(ctx context.Context, ticketNumber string) (*ticketing.Ticket, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ticketing.Ticket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ticketing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByStatus(ctx context.Context, statuses []ticketing.TicketStatus, filter shared.Filter) ([]ticketing.Ticket, error) {
	args := m.Called(ctx, statuses, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ticketing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByAssignee(ctx context.Context, technicianID uuid.UUID, filter shared.Filter) ([]ticketing.Ticket, error) {
	args := m.Called(ctx, technicianID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ticketing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByCreator(ctx context.Context, createdBy uuid.UUID) ([]ticketing.Ticket, error) {
	args := m.Called(ctx, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ticketing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) Save(ctx context.Context, ticket *ticketing.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockWorkLogRepository is a mock implementation of ticketing.WorkLogRepository
type MockWorkLogRepository struct {
	mock.Mock
}

func (m *MockWorkLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*ticketing.WorkLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketing.WorkLog), args.Error(1)
}

func (m *MockWorkLogRepository) FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]ticketing.WorkLog, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ticketing.WorkLog), args.Error(1)
}

func (m *MockWorkLogRepository) FindByTicketAndMachine(ctx context.Context, ticketID, machineID uuid.UUID) (*ticketing.WorkLog, error) {
	args := m.Called(ctx, ticketID, machineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketing.WorkLog), args.Error(1)
}

func (m *MockWorkLogRepository) FindByMachine(ctx context.Context, machineID uuid.UUID) ([]ticketing.WorkLog, error) {
	args := m.Called(ctx, machineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ticketing.WorkLog), args.Error(1)
}

func (m *MockWorkLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ticketing.WorkLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ticketing.WorkLog), args.Error(1)
}

func (m *MockWorkLogRepository) Save(ctx context.Context, log *ticketing.WorkLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockWorkLogRepository) SaveBatch(ctx context.Context, logs []*ticketing.WorkLog) error {
	args := m.Called(ctx, logs)
	return args.Error(0)
}

// MockMachineRepository is a mock implementation of registry.MachineRepository
type MockMachineRepository struct {
	mock.Mock
}

func (m *MockMachineRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Machine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Machine), args.Error(1)
}

func (m *MockMachineRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]registry.Machine, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registry.Machine), args.Error(1)
}

func (m *MockMachineRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]registry.Machine, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registry.Machine), args.Error(1)
}

func (m *MockMachineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Machine, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registry.Machine), args.Error(1)
}

func (m *MockMachineRepository) Save(ctx context.Context, machine *registry.Machine) error {
	args := m.Called(ctx, machine)
	return args.Error(0)
}

func (m *MockMachineRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCustomerRepository is a mock implementation of registry.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registry.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]registry.Customer, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registry.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *registry.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role identity.Role, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, role, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindTechnicians(ctx context.Context) ([]identity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateStats(ctx context.Context, id uuid.UUID, fn func(stats *identity.CallAdminStats) error) error {
	args := m.Called(ctx, id, fn)
	return args.Error(0)
}

// MockStatsNotifier is a mock implementation of StatsNotifier
type MockStatsNotifier struct {
	mock.Mock
}

func (m *MockStatsNotifier) OnTicketCreated(ctx context.Context, ticket *ticketing.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockStatsNotifier) OnStatusChanged(ctx context.Context, creatorID uuid.UUID, oldStatus, newStatus ticketing.TicketStatus) error {
	args := m.Called(ctx, creatorID, oldStatus, newStatus)
	return args.Error(0)
}

var (
	_ ticketing.TicketRepository  = (*MockTicketRepository)(nil)
	_ ticketing.WorkLogRepository = (*MockWorkLogRepository)(nil)
	_ registry.MachineRepository  = (*MockMachineRepository)(nil)
	_ registry.CustomerRepository = (*MockCustomerRepository)(nil)
	_ identity.UserRepository     = (*MockUserRepository)(nil)
	_ StatsNotifier               = (*MockStatsNotifier)(nil)
)
