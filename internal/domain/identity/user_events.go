package identity

import (
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeUser = "User"

// Event type constants
const (
	EventTypeUserCreated  = "UserCreated"
	EventTypeUserDisabled = "UserDisabled"
)

// UserCreatedEvent is raised when a new user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID),
		UserID:          user.ID,
		Email:           user.Email,
		Role:            user.Role,
	}
}

// UserDisabledEvent is raised when a user is disabled
type UserDisabledEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewUserDisabledEvent creates a new UserDisabledEvent
func NewUserDisabledEvent(user *User) *UserDisabledEvent {
	return &UserDisabledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDisabled, AggregateTypeUser, user.ID),
		UserID:          user.ID,
	}
}
