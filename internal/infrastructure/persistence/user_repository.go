package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/infrastructure/persistence/models"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	if email == "" {
		return nil, shared.ErrNotFound
	}
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRole finds all users with the given role
func (r *GormUserRepository) FindByRole(ctx context.Context, role identity.Role, filter shared.Filter) ([]identity.User, error) {
	var userModels []models.UserModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.UserModel{}).Where("role = ?", role.String()),
		filter,
	)
	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}
	return toDomainUsers(userModels), nil
}

// FindTechnicians finds all enabled technicians
func (r *GormUserRepository) FindTechnicians(ctx context.Context) ([]identity.User, error) {
	var userModels []models.UserModel
	if err := r.db.WithContext(ctx).
		Where("role = ? AND disabled = ?", identity.RoleTechnician.String(), false).
		Order("name ASC").
		Find(&userModels).Error; err != nil {
		return nil, err
	}
	return toDomainUsers(userModels), nil
}

// FindAll finds all users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var userModels []models.UserModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)
	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}
	return toDomainUsers(userModels), nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	return r.db.WithContext(ctx).Save(model).Error
}

// UpdateStats applies fn to the user's stats inside a transaction holding
// a row lock on the user, so concurrent ticket operations cannot lose
// increments. fn receives zeroed stats when the user has none yet.
func (r *GormUserRepository) UpdateStats(ctx context.Context, id uuid.UUID, fn func(stats *identity.CallAdminStats) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.UserModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if model.Stats == nil {
			model.Stats = &identity.CallAdminStats{}
		}
		if err := fn(model.Stats); err != nil {
			return err
		}

		return tx.Model(&models.UserModel{}).
			Where("id = ?", id).
			Update("stats", model.Stats).Error
	})
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter, sorting and pagination options
func (r *GormUserRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, UserSortFields, "created_at")
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

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormUserRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "disabled":
			query = query.Where("disabled = ?", value)
		}
	}

	return query
}

func toDomainUsers(userModels []models.UserModel) []identity.User {
	users := make([]identity.User, len(userModels))
	for i := range userModels {
		users[i] = *userModels[i].ToDomain()
	}
	return users
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
