package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRole string

const (
	AccountRoleStaff AccountRole = "STAFF"
	AccountRoleOwner AccountRole = "OWNER"
	AccountRoleAdmin AccountRole = "ADMIN"
)

// Account is a person who signs in: business staff, the business owner, or a platform admin.
type Account struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string      `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	Role         AccountRole `gorm:"size:16;not null" json:"role"`
	BusinessID   *uuid.UUID  `gorm:"type:uuid;index" json:"business_id,omitempty"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Account) IsAdmin() bool {
	return a.Role == AccountRoleAdmin
}

// CanManage reports whether the account may act on resources of businessID.
func (a *Account) CanManage(businessID uuid.UUID) bool {
	if a.IsAdmin() {
		return true
	}
	return a.BusinessID != nil && *a.BusinessID == businessID
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Account     *Account  `json:"account"`
}

type ImpersonationResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Account     *Account  `json:"account"`
	// ImpersonatedBy is the admin account id that requested the session.
	ImpersonatedBy uuid.UUID `json:"impersonated_by"`
}

type AccountCreateRequest struct {
	Username   string      `json:"username" validate:"required,min=3,max=64"`
	Password   string      `json:"password" validate:"required,min=8,max=72"`
	Role       AccountRole `json:"role" validate:"required,oneof=STAFF OWNER ADMIN"`
	BusinessID *string     `json:"business_id,omitempty" validate:"omitempty,uuid"`
}
