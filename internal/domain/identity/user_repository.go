package identity

import (
	"context"

	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByRole finds all users with the given role
	FindByRole(ctx context.Context, role Role, filter shared.Filter) ([]User, error)

	// FindTechnicians finds all enabled technicians
	FindTechnicians(ctx context.Context) ([]User, error)

	// FindAll finds all users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// UpdateStats applies fn to the user's stats inside a transaction
	// holding a row lock on the user, so concurrent ticket operations
	// cannot lose increments. fn receives stats initialized to zeros
	// when the user has none yet.
	UpdateStats(ctx context.Context, id uuid.UUID, fn func(stats *CallAdminStats) error) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
