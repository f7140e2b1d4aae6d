package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CampaignStatus string

const (
	CampaignStatusActive CampaignStatus = "ACTIVE"
	CampaignStatusPaused CampaignStatus = "PAUSED"
)

// Campaign is a time-boxed promotion whose claims issue single-use tickets.
type Campaign struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_campaign_business_slug" json:"business_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Slug        string          `gorm:"size:255;not null;uniqueIndex:idx_campaign_business_slug" json:"slug"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	RewardValue decimal.Decimal `gorm:"type:decimal(18,2)" json:"reward_value"`
	StartsAt    time.Time       `gorm:"not null" json:"starts_at"`
	EndsAt      *time.Time      `json:"ends_at,omitempty"`
	// TicketValidityHours bounds each ticket's life from issue; zero means only EndsAt applies.
	TicketValidityHours int            `gorm:"not null;default:0" json:"ticket_validity_hours"`
	Status              CampaignStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"-"`
}

func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsRunning reports whether tickets may be claimed at now.
func (c *Campaign) IsRunning(now time.Time) bool {
	if c.Status != CampaignStatusActive {
		return false
	}
	if now.Before(c.StartsAt) {
		return false
	}
	return c.EndsAt == nil || now.Before(*c.EndsAt)
}

type CampaignCreateRequest struct {
	// BusinessID is required when an admin creates a campaign; owners always use their own business.
	BusinessID          *string         `json:"business_id,omitempty" validate:"omitempty,uuid"`
	Name                string          `json:"name" validate:"required,max=255"`
	Description         *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	RewardValue         decimal.Decimal `json:"reward_value"`
	StartsAt            time.Time       `json:"starts_at" validate:"required"`
	EndsAt              *time.Time      `json:"ends_at,omitempty"`
	TicketValidityHours int             `json:"ticket_validity_hours" validate:"min=0,max=8760"`
}

type CampaignStatusUpdateRequest struct {
	Status CampaignStatus `json:"status" validate:"required,oneof=ACTIVE PAUSED"`
}

type CampaignFilter struct {
	BusinessID *string `query:"business_id" validate:"omitempty,uuid"`
}
