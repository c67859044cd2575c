package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/domain/ticketing"
	"github.com/fieldserve/backend/internal/infrastructure/persistence/models"
)

// GormWorkLogRepository implements ticketing.WorkLogRepository using GORM
type GormWorkLogRepository struct {
	db *gorm.DB
}

// NewGormWorkLogRepository creates a new GormWorkLogRepository
func NewGormWorkLogRepository(db *gorm.DB) *GormWorkLogRepository {
	return &GormWorkLogRepository{db: db}
}

// FindByID finds a work log by its ID
func (r *GormWorkLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*ticketing.WorkLog, error) {
	var model models.WorkLogModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTicket finds all work logs for a ticket
func (r *GormWorkLogRepository) FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]ticketing.WorkLog, error) {
	var logModels []models.WorkLogModel
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&logModels).Error; err != nil {
		return nil, err
	}
	return toDomainWorkLogs(logModels), nil
}

// FindByTicketAndMachine finds the work log for one machine on one ticket
func (r *GormWorkLogRepository) FindByTicketAndMachine(ctx context.Context, ticketID, machineID uuid.UUID) (*ticketing.WorkLog, error) {
	var model models.WorkLogModel
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ? AND machine_id = ?", ticketID, machineID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMachine finds the service history of a machine across tickets
func (r *GormWorkLogRepository) FindByMachine(ctx context.Context, machineID uuid.UUID) ([]ticketing.WorkLog, error) {
	var logModels []models.WorkLogModel
	if err := r.db.WithContext(ctx).
		Where("machine_id = ?", machineID).
		Order("arrival_time DESC").
		Find(&logModels).Error; err != nil {
		return nil, err
	}
	return toDomainWorkLogs(logModels), nil
}

// FindAll finds all work logs matching the filter
func (r *GormWorkLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ticketing.WorkLog, error) {
	var logModels []models.WorkLogModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.WorkLogModel{}), filter)
	if err := query.Find(&logModels).Error; err != nil {
		return nil, err
	}
	return toDomainWorkLogs(logModels), nil
}

// Save creates or updates a single work log
func (r *GormWorkLogRepository) Save(ctx context.Context, log *ticketing.WorkLog) error {
	model := models.WorkLogModelFromDomain(log)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveBatch persists several work logs atomically: all logs for one
// technician visit succeed or fail together.
func (r *GormWorkLogRepository) SaveBatch(ctx context.Context, logs []*ticketing.WorkLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, log := range logs {
			model := models.WorkLogModelFromDomain(log)
			if err := tx.Save(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormWorkLogRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "ticket_id":
			query = query.Where("ticket_id = ?", value)
		case "machine_id":
			query = query.Where("machine_id = ?", value)
		case "recorded_by":
			query = query.Where("recorded_by = ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, WorkLogSortFields, "created_at")
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

func toDomainWorkLogs(logModels []models.WorkLogModel) []ticketing.WorkLog {
	logs := make([]ticketing.WorkLog, len(logModels))
	for i := range logModels {
		logs[i] = *logModels[i].ToDomain()
	}
	return logs
}

var _ ticketing.WorkLogRepository = (*GormWorkLogRepository)(nil)
