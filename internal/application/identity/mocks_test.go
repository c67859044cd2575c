package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/domain/ticketing"
)

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

func (m *MockUserRepository) UpdateStats(ctx context.Context, id uuid.UUID, fn func(stats *identity.CallAdminStats) error) error {
	args := m.Called(ctx, id, fn)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

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
