package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fieldserve/backend/internal/domain/identity"
)

// LoginInput represents a login request
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginResult represents a successful login
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Name            string           `json:"name" binding:"required,min=1,max=200"`
	Email           string           `json:"email" binding:"required,email"`
	Password        string           `json:"password" binding:"required,min=8,max=72"`
	Role            string           `json:"role" binding:"required,oneof=admin management call_admin technician"`
	InternalPayRate *decimal.Decimal `json:"internal_pay_rate"`
	ChargeoutRate   *decimal.Decimal `json:"chargeout_rate"`
}

// UpdateUserRequest represents a request to update a user.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Disabled        *bool            `json:"disabled"`
	InternalPayRate *decimal.Decimal `json:"internal_pay_rate"`
	ChargeoutRate   *decimal.Decimal `json:"chargeout_rate"`
}

// UserListFilter represents filter options for user lists
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=admin management call_admin technician"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CallAdminStatsResponse mirrors the denormalized stats block on call admins
type CallAdminStatsResponse struct {
	TotalTickets    int        `json:"total_tickets"`
	OpenTickets     int        `json:"open_tickets"`
	AssignedTickets int        `json:"assigned_tickets"`
	ClosedTickets   int        `json:"closed_tickets"`
	ActiveTickets   int        `json:"active_tickets"`
	UrgentPriority  int        `json:"urgent_priority"`
	HighPriority    int        `json:"high_priority"`
	MediumPriority  int        `json:"medium_priority"`
	LowPriority     int        `json:"low_priority"`
	FirstTicketDate *time.Time `json:"first_ticket_date,omitempty"`
	LastTicketDate  *time.Time `json:"last_ticket_date,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID              uuid.UUID               `json:"id"`
	Name            string                  `json:"name"`
	Email           string                  `json:"email"`
	Role            string                  `json:"role"`
	Disabled        bool                    `json:"disabled"`
	InternalPayRate *decimal.Decimal        `json:"internal_pay_rate,omitempty"`
	ChargeoutRate   *decimal.Decimal        `json:"chargeout_rate,omitempty"`
	Stats           *CallAdminStatsResponse `json:"stats,omitempty"`
	LastLoginAt     *time.Time              `json:"last_login_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ToUserResponse converts a domain User to a UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	resp := UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role.String(),
		Disabled:        u.Disabled,
		InternalPayRate: u.InternalPayRate,
		ChargeoutRate:   u.ChargeoutRate,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.Stats != nil {
		resp.Stats = &CallAdminStatsResponse{
			TotalTickets:    u.Stats.TotalTickets,
			OpenTickets:     u.Stats.OpenTickets,
			AssignedTickets: u.Stats.AssignedTickets,
			ClosedTickets:   u.Stats.ClosedTickets,
			ActiveTickets:   u.Stats.ActiveTickets,
			UrgentPriority:  u.Stats.UrgentPriority,
			HighPriority:    u.Stats.HighPriority,
			MediumPriority:  u.Stats.MediumPriority,
			LowPriority:     u.Stats.LowPriority,
			FirstTicketDate: u.Stats.FirstTicketDate,
			LastTicketDate:  u.Stats.LastTicketDate,
			UpdatedAt:       u.Stats.UpdatedAt,
		}
	}
	return resp
}

// TechnicianResponse is the compact technician listing used by dispatch
type TechnicianResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
