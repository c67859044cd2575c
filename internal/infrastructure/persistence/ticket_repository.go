package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/domain/ticketing"
	"github.com/fieldserve/backend/internal/infrastructure/persistence/models"
)

// GormTicketRepository implements ticketing.TicketRepository using GORM
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GormTicketRepository
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// FindByID finds a ticket by its ID
func (r *GormTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*ticketing.Ticket, error) {
	var model models.TicketModel
	if err := r.db.WithContext(ctx).
		Preload("Machines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a ticket by its human-readable number
func (r *GormTicketRepository) FindByNumber(ctx context.Context, ticketNumber string) (*ticketing.Ticket, error) {
	var model models.TicketModel
	if err := r.db.WithContext(ctx).
		Preload("Machines").
		Where("ticket_number = ?", ticketNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all tickets matching the filter
func (r *GormTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ticketing.Ticket, error) {
	var ticketModels []models.TicketModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TicketModel{}).Preload("Machines"),
		filter,
	)
	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, err
	}
	return toDomainTickets(ticketModels), nil
}

// FindByStatus finds tickets in any of the given statuses
func (r *GormTicketRepository) FindByStatus(ctx context.Context, statuses []ticketing.TicketStatus, filter shared.Filter) ([]ticketing.Ticket, error) {
	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = s.String()
	}

	var ticketModels []models.TicketModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TicketModel{}).
			Preload("Machines").
			Where("status IN ?", statusStrings),
		filter,
	)
	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, err
	}
	return toDomainTickets(ticketModels), nil
}

// FindByAssignee finds tickets assigned to a technician
func (r *GormTicketRepository) FindByAssignee(ctx context.Context, technicianID uuid.UUID, filter shared.Filter) ([]ticketing.Ticket, error) {
	var ticketModels []models.TicketModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TicketModel{}).
			Preload("Machines").
			Where("assigned_to = ?", technicianID),
		filter,
	)
	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, err
	}
	return toDomainTickets(ticketModels), nil
}

// FindByCreator finds tickets created by a user
func (r *GormTicketRepository) FindByCreator(ctx context.Context, createdBy uuid.UUID) ([]ticketing.Ticket, error) {
	var ticketModels []models.TicketModel
	if err := r.db.WithContext(ctx).
		Preload("Machines").
		Where("created_by = ?", createdBy).
		Order("created_at ASC").
		Find(&ticketModels).Error; err != nil {
		return nil, err
	}
	return toDomainTickets(ticketModels), nil
}

// CountCreatedBetween counts tickets created in [start, end)
func (r *GormTicketRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TicketModel{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a ticket together with its machine snapshots.
// Snapshots are immutable, so rows are only inserted, never rewritten.
func (r *GormTicketRepository) Save(ctx context.Context, ticket *ticketing.Ticket) error {
	model := models.TicketModelFromDomain(ticket)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		machines := model.Machines
		model.Machines = nil

		if err := tx.Save(model).Error; err != nil {
			return err
		}

		for i := range machines {
			var existing int64
			if err := tx.Model(&models.TicketMachineModel{}).
				Where("ticket_id = ? AND machine_id = ?", machines[i].TicketID, machines[i].MachineID).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}
			if err := tx.Create(&machines[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Count counts tickets matching the filter
func (r *GormTicketRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.TicketModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTicketRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, TicketSortFields, "created_at")
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

func (r *GormTicketRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("ticket_number ILIKE ? OR issue_description ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "assigned_to":
			query = query.Where("assigned_to = ?", value)
		case "created_by":
			query = query.Where("created_by = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at < ?", t)
			}
		}
	}

	return query
}

func toDomainTickets(ticketModels []models.TicketModel) []ticketing.Ticket {
	tickets := make([]ticketing.Ticket, len(ticketModels))
	for i := range ticketModels {
		tickets[i] = *ticketModels[i].ToDomain()
	}
	return tickets
}

var _ ticketing.TicketRepository = (*GormTicketRepository)(nil)
