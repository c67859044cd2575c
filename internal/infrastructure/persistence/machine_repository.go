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

// GormMachineRepository implements registry.MachineRepository using GORM
type GormMachineRepository struct {
	db *gorm.DB
}

// NewGormMachineRepository creates a new GormMachineRepository
func NewGormMachineRepository(db *gorm.DB) *GormMachineRepository {
	return &GormMachineRepository{db: db}
}

// FindByID finds a machine by its ID
func (r *GormMachineRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Machine, error) {
	var model models.MachineModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer finds all machines owned by a customer
func (r *GormMachineRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]registry.Machine, error) {
	var machineModels []models.MachineModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("serial_number ASC").
		Find(&machineModels).Error; err != nil {
		return nil, err
	}
	return toDomainMachines(machineModels), nil
}

// FindByIDs finds multiple machines by their IDs
func (r *GormMachineRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]registry.Machine, error) {
	if len(ids) == 0 {
		return []registry.Machine{}, nil
	}

	var machineModels []models.MachineModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&machineModels).Error; err != nil {
		return nil, err
	}
	return toDomainMachines(machineModels), nil
}

// FindAll finds all machines matching the filter
func (r *GormMachineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Machine, error) {
	var machineModels []models.MachineModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MachineModel{}), filter)
	if err := query.Find(&machineModels).Error; err != nil {
		return nil, err
	}
	return toDomainMachines(machineModels), nil
}

// Save creates or updates a machine
func (r *GormMachineRepository) Save(ctx context.Context, machine *registry.Machine) error {
	model := models.MachineModelFromDomain(machine)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts machines matching the filter
func (r *GormMachineRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.MachineModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMachineRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, MachineSortFields, "created_at")
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

func (r *GormMachineRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("serial_number ILIKE ? OR location ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		}
	}

	return query
}

func toDomainMachines(machineModels []models.MachineModel) []registry.Machine {
	machines := make([]registry.Machine, len(machineModels))
	for i := range machineModels {
		machines[i] = *machineModels[i].ToDomain()
	}
	return machines
}

var _ registry.MachineRepository = (*GormMachineRepository)(nil)
