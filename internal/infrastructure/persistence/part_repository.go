package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/infrastructure/persistence/models"
)

// GormPartRepository implements registry.PartRepository using GORM
type GormPartRepository struct {
	db *gorm.DB
}

// NewGormPartRepository creates a new GormPartRepository
func NewGormPartRepository(db *gorm.DB) *GormPartRepository {
	return &GormPartRepository{db: db}
}

// FindByID finds a part by its ID
func (r *GormPartRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Part, error) {
	var model models.PartModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all parts matching the filter
func (r *GormPartRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Part, error) {
	var partModels []models.PartModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PartModel{}), filter)
	if err := query.Find(&partModels).Error; err != nil {
		return nil, err
	}

	parts := make([]registry.Part, len(partModels))
	for i := range partModels {
		parts[i] = *partModels[i].ToDomain()
	}
	return parts, nil
}

// Save creates or updates a part
func (r *GormPartRepository) Save(ctx context.Context, part *registry.Part) error {
	model := models.PartModelFromDomain(part)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts parts matching the filter
func (r *GormPartRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PartModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPartRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, PartSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

func (r *GormPartRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR category ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "low_stock":
			if lowStock, ok := value.(bool); ok && lowStock {
				query = query.Where("quantity_in_stock < min_quantity")
			}
		}
	}

	return query
}

var _ registry.PartRepository = (*GormPartRepository)(nil)
