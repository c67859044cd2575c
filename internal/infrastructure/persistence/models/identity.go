package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldserve/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate root.
// Call admin statistics are stored as a JSON sub-document so the whole
// denormalized block reads and writes in one row access.
type UserModel struct {
	AggregateModel
	Name            string                   `gorm:"type:varchar(200);not null"`
	Email           string                   `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash    string                   `gorm:"type:varchar(255);not null"`
	Role            string                   `gorm:"type:varchar(20);not null;index"`
	Disabled        bool                     `gorm:"not null;default:false"`
	InternalPayRate *decimal.Decimal         `gorm:"type:decimal(18,4)"`
	ChargeoutRate   *decimal.Decimal         `gorm:"type:decimal(18,4)"`
	Stats           *identity.CallAdminStats `gorm:"type:jsonb;serializer:json"`
	LastLoginAt     *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              identity.Role(m.Role),
		Disabled:          m.Disabled,
		InternalPayRate:   m.InternalPayRate,
		ChargeoutRate:     m.ChargeoutRate,
		Stats:             m.Stats,
		LastLoginAt:       m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role.String()
	m.Disabled = u.Disabled
	m.InternalPayRate = u.InternalPayRate
	m.ChargeoutRate = u.ChargeoutRate
	m.Stats = u.Stats
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
