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

// PartService handles parts catalog use cases. Stock levels are
// informational; logging parts on a work log never decrements them.
type PartService struct {
	partRepo registry.PartRepository
	cache    cache.TagCache
	logger   *zap.Logger
}

// NewPartService creates a new PartService
func NewPartService(partRepo registry.PartRepository, tagCache cache.TagCache, logger *zap.Logger) *PartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartService{
		partRepo: partRepo,
		cache:    tagCache,
		logger:   logger,
	}
}

// Create adds a part to the catalog
func (s *PartService) Create(ctx context.Context, actor *identity.User, req CreatePartRequest) (*PartResponse, error) {
	if !actor.Role.CanManageTickets() {
		return nil, shared.ErrUnauthorized
	}

	part, err := registry.NewPart(req.Name, req.Description, req.Category, req.QuantityInStock, req.MinQuantity)
	if err != nil {
		return nil, err
	}
	if err := s.partRepo.Save(ctx, part); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagParts)

	response := ToPartResponse(part)
	return &response, nil
}

// Update applies a partial update to a part
func (s *PartService) Update(ctx context.Context, actor *identity.User, id uuid.UUID, req UpdatePartRequest) (*PartResponse, error) {
	if !actor.Role.CanManageTickets() {
		return nil, shared.ErrUnauthorized
	}

	part, err := s.partRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		part.Description = *req.Description
	}
	if req.Category != nil {
		part.Category = *req.Category
	}
	if req.MinQuantity != nil {
		part.MinQuantity = *req.MinQuantity
	}
	if req.QuantityInStock != nil {
		if err := part.AdjustStock(*req.QuantityInStock); err != nil {
			return nil, err
		}
	}

	if err := s.partRepo.Save(ctx, part); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagParts)

	response := ToPartResponse(part)
	return &response, nil
}

// GetByID returns a single part
func (s *PartService) GetByID(ctx context.Context, id uuid.UUID) (*PartResponse, error) {
	part, err := s.partRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPartResponse(part)
	return &response, nil
}

// List returns a paginated part list
func (s *PartService) List(ctx context.Context, filter PartListFilter) (*shared.Paginated[PartResponse], error) {
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
	if filter.Category != nil {
		f.Filters["category"] = *filter.Category
	}
	if filter.LowStock {
		f.Filters["low_stock"] = true
	}

	parts, err := s.partRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.partRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	responses := make([]PartResponse, len(parts))
	for i := range parts {
		responses[i] = ToPartResponse(&parts[i])
	}

	result := shared.NewPaginated(responses, total, f.Page, f.PageSize)
	return &result, nil
}

func (s *PartService) invalidate(ctx context.Context, tags ...string) {
	if err := s.cache.Invalidate(ctx, tags...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("tags", tags), zap.Error(err))
	}
}
