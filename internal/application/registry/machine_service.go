package registry

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/infrastructure/cache"
)

// MachineService handles machine master data use cases
type MachineService struct {
	machineRepo  registry.MachineRepository
	customerRepo registry.CustomerRepository
	cache        cache.TagCache
	logger       *zap.Logger
}

// NewMachineService creates a new MachineService
func NewMachineService(machineRepo registry.MachineRepository, customerRepo registry.CustomerRepository, tagCache cache.TagCache, logger *zap.Logger) *MachineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MachineService{
		machineRepo:  machineRepo,
		customerRepo: customerRepo,
		cache:        tagCache,
		logger:       logger,
	}
}

// Create registers a machine at a customer site. The customer must exist
// and be active.
func (s *MachineService) Create(ctx context.Context, actor *identity.User, req CreateMachineRequest) (*MachineResponse, error) {
	if !actor.Role.CanManageTickets() {
		return nil, shared.ErrUnauthorized
	}

	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.Disabled {
		return nil, shared.NewDomainError("CUSTOMER_DISABLED", "Cannot register machines for a disabled customer")
	}

	machine, err := registry.NewMachine(customer.ID, registry.MachineType(req.Type), req.SerialNumber)
	if err != nil {
		return nil, err
	}
	if req.Location != "" {
		machine.SetLocation(req.Location)
	}
	if req.Notes != "" {
		machine.SetNotes(req.Notes)
	}
	if req.InstallationDate != nil {
		machine.SetInstallationDate(*req.InstallationDate)
	}

	if err := s.machineRepo.Save(ctx, machine); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagMachines)

	response := ToMachineResponse(machine)
	return &response, nil
}

// Update applies a partial update to a machine. Type and serial number
// are immutable after registration; tickets snapshot them anyway.
func (s *MachineService) Update(ctx context.Context, actor *identity.User, id uuid.UUID, req UpdateMachineRequest) (*MachineResponse, error) {
	if !actor.Role.CanManageTickets() {
		return nil, shared.ErrUnauthorized
	}

	machine, err := s.machineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Location != nil {
		machine.SetLocation(*req.Location)
	}
	if req.Notes != nil {
		machine.SetNotes(*req.Notes)
	}
	if req.InstallationDate != nil {
		machine.SetInstallationDate(*req.InstallationDate)
	}

	if err := s.machineRepo.Save(ctx, machine); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagMachines)

	response := ToMachineResponse(machine)
	return &response, nil
}

// GetByID returns a single machine
func (s *MachineService) GetByID(ctx context.Context, id uuid.UUID) (*MachineResponse, error) {
	machine, err := s.machineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToMachineResponse(machine)
	return &response, nil
}

// ListByCustomer returns all machines installed at a customer site
func (s *MachineService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]MachineResponse, error) {
	machines, err := s.machineRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	responses := make([]MachineResponse, len(machines))
	for i := range machines {
		responses[i] = ToMachineResponse(&machines[i])
	}
	return responses, nil
}

// List returns a paginated machine list
func (s *MachineService) List(ctx context.Context, filter MachineListFilter) (*shared.Paginated[MachineResponse], error) {
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
	if filter.CustomerID != nil {
		f.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Type != nil {
		f.Filters["type"] = *filter.Type
	}

	machines, err := s.machineRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.machineRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	responses := make([]MachineResponse, len(machines))
	for i := range machines {
		responses[i] = ToMachineResponse(&machines[i])
	}

	result := shared.NewPaginated(responses, total, f.Page, f.PageSize)
	return &result, nil
}

func (s *MachineService) invalidate(ctx context.Context, tags ...string) {
	if err := s.cache.Invalidate(ctx, tags...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("tags", tags), zap.Error(err))
	}
}
