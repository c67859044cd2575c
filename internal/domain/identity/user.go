package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the role of a user in the system
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManagement Role = "management"
	RoleCallAdmin  Role = "call_admin"
	RoleTechnician Role = "technician"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManagement, RoleCallAdmin, RoleTechnician:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// CanManageTickets reports whether the role may create and edit tickets
func (r Role) CanManageTickets() bool {
	return r == RoleAdmin || r == RoleCallAdmin || r == RoleManagement
}

// CanViewReports reports whether the role may access aggregated reports
func (r Role) CanViewReports() bool {
	return r == RoleAdmin || r == RoleManagement
}

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// CallAdminStats is a denormalized statistics sub-document kept on
// call_admin users. It is maintained exclusively by the stats service;
// all other code treats it as read-only.
type CallAdminStats struct {
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

// User represents a system user: call administrators, technicians,
// management and admins. It is the aggregate root for user operations.
type User struct {
	shared.BaseAggregateRoot
	Name            string
	Email           string
	PasswordHash    string
	Role            Role
	Disabled        bool
	InternalPayRate *decimal.Decimal // hourly cost of a technician
	ChargeoutRate   *decimal.Decimal // hourly rate billed to customers
	Stats           *CallAdminStats  // only present on call_admin users
	LastLoginAt     *time.Time
}

// NewUser creates a new user with required fields
func NewUser(name, email, password string, role Role) (*User, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown user role")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		Role:              role,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// SetRates sets the technician pay and chargeout rates
func (u *User) SetRates(internalPayRate, chargeoutRate decimal.Decimal) error {
	if internalPayRate.IsNegative() || chargeoutRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
	}
	u.InternalPayRate = &internalPayRate
	u.ChargeoutRate = &chargeoutRate
	u.UpdatedAt = time.Now()
	return nil
}

// Disable marks the user as disabled. Disabled users cannot authenticate.
func (u *User) Disable() {
	u.Disabled = true
	u.UpdatedAt = time.Now()
}

// Enable re-activates a disabled user
func (u *User) Enable() {
	u.Disabled = false
	u.UpdatedAt = time.Now()
}

// RecordLogin records a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the user's password
func (u *User) ChangePassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	return nil
}

// IsTechnician reports whether the user is a technician
func (u *User) IsTechnician() bool {
	return u.Role == RoleTechnician
}

// IsCallAdmin reports whether the user is a call administrator
func (u *User) IsCallAdmin() bool {
	return u.Role == RoleCallAdmin
}

// EnsureStats returns the user's stats, initializing zeroed stats if absent
func (u *User) EnsureStats() *CallAdminStats {
	if u.Stats == nil {
		u.Stats = &CallAdminStats{}
	}
	return u.Stats
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
