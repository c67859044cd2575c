package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/shared"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Create creates a new user. Only admins may create users.
func (s *UserService) Create(ctx context.Context, actor *identity.User, req CreateUserRequest) (*UserResponse, error) {
	if actor.Role != identity.RoleAdmin {
		return nil, shared.ErrUnauthorized
	}

	if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	user, err := identity.NewUser(req.Name, req.Email, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	user.SetCreatedBy(actor.ID)

	if req.InternalPayRate != nil && req.ChargeoutRate != nil {
		if err := user.SetRates(*req.InternalPayRate, *req.ChargeoutRate); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Update applies a partial update to a user. Only admins may edit users.
func (s *UserService) Update(ctx context.Context, actor *identity.User, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if actor.Role != identity.RoleAdmin {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
		}
		user.Name = name
	}
	if req.Disabled != nil {
		if *req.Disabled {
			user.Disable()
		} else {
			user.Enable()
		}
	}
	if req.InternalPayRate != nil && req.ChargeoutRate != nil {
		if err := user.SetRates(*req.InternalPayRate, *req.ChargeoutRate); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses, total, nil
}

// ListTechnicians returns all enabled technicians for assignment pickers
func (s *UserService) ListTechnicians(ctx context.Context) ([]TechnicianResponse, error) {
	techs, err := s.userRepo.FindTechnicians(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]TechnicianResponse, len(techs))
	for i := range techs {
		responses[i] = TechnicianResponse{ID: techs[i].ID, Name: techs[i].Name}
	}
	return responses, nil
}
