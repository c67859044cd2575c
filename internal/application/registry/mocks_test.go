package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/shared"
)

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

// MockPartRepository is a mock implementation of registry.PartRepository
type MockPartRepository struct {
	mock.Mock
}

func (m *MockPartRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Part, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Part), args.Error(1)
}

func (m *MockPartRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Part, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registry.Part), args.Error(1)
}

func (m *MockPartRepository) Save(ctx context.Context, part *registry.Part) error {
	args := m.Called(ctx, part)
	return args.Error(0)
}

func (m *MockPartRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

var (
	_ registry.CustomerRepository = (*MockCustomerRepository)(nil)
	_ registry.MachineRepository  = (*MockMachineRepository)(nil)
	_ registry.PartRepository     = (*MockPartRepository)(nil)
)
