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

// CustomerService handles customer master data use cases. Customers are
// never deleted: disabling keeps their machines and ticket history
// intact while blocking new tickets.
type CustomerService struct {
	customerRepo registry.CustomerRepository
	cache        cache.TagCache
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo registry.CustomerRepository, tagCache cache.TagCache, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		cache:        tagCache,
		logger:       logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, actor *identity.User, req CreateCustomerRequest) (*CustomerResponse, error) {
	if !actor.Role.CanManageTickets() {
		return nil, shared.ErrUnauthorized
	}

	customer, err := registry.NewCustomer(req.CompanyName, req.ContactPerson, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagCustomers)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Update applies a partial update to a customer
func (s *CustomerService) Update(ctx context.Context, actor *identity.User, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	if !actor.Role.CanManageTickets() {
		return nil, shared.ErrUnauthorized
	}

	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	companyName := customer.CompanyName
	if req.CompanyName != nil {
		companyName = *req.CompanyName
	}
	contactPerson := customer.ContactPerson
	if req.ContactPerson != nil {
		contactPerson = *req.ContactPerson
	}
	phone := customer.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	address := customer.Address
	if req.Address != nil {
		address = *req.Address
	}
	if err := customer.Update(companyName, contactPerson, phone, address); err != nil {
		return nil, err
	}

	if req.Disabled != nil {
		if *req.Disabled {
			customer.Disable()
		} else {
			customer.Enable()
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagCustomers)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID returns a single customer
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List returns a paginated customer list. Disabled customers are hidden
// unless explicitly requested.
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
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
	if !filter.IncludeDisabled {
		f.Filters["disabled"] = false
	}

	customers, err := s.customerRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}

	result := shared.NewPaginated(responses, total, f.Page, f.PageSize)
	return &result, nil
}

func (s *CustomerService) invalidate(ctx context.Context, tags ...string) {
	if err := s.cache.Invalidate(ctx, tags...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("tags", tags), zap.Error(err))
	}
}
