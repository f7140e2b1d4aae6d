package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketStatusActive TicketStatus = "ACTIVE"
	TicketStatusUsed   TicketStatus = "USED"
	// TicketStatusExpired is derived at read time and never stored.
	TicketStatusExpired TicketStatus = "EXPIRED"
)

// Ticket is one issued, single-use promotional redemption right.
type Ticket struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Code       string       `gorm:"size:16;uniqueIndex;not null" json:"code"`
	CampaignID uuid.UUID    `gorm:"type:uuid;index;not null" json:"campaign_id"`
	Status     TicketStatus `gorm:"size:16;not null;index" json:"status"`
	IssuedAt   time.Time    `gorm:"not null" json:"issued_at"`
	ExpiresAt  *time.Time   `json:"expires_at,omitempty"`
	UsedAt     *time.Time   `json:"used_at,omitempty"`
	UsedBy     *uuid.UUID   `gorm:"type:uuid" json:"used_by,omitempty"`

	// Customer fields are written once at issue.
	CustomerName    string  `gorm:"size:255;not null" json:"customer_name"`
	CustomerContact *string `gorm:"size:255" json:"customer_contact,omitempty"`
	CustomerEmail   *string `gorm:"size:255" json:"customer_email,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Campaign *Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// EffectiveStatus folds expiry into the stored status.
func (t *Ticket) EffectiveStatus(now time.Time) TicketStatus {
	if t.Status == TicketStatusUsed {
		return TicketStatusUsed
	}
	if t.IsExpiredAt(now) {
		return TicketStatusExpired
	}
	return t.Status
}

func (t *Ticket) IsExpiredAt(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}

type TicketClaimRequest struct {
	CustomerName    string  `json:"customer_name" validate:"required,max=255"`
	CustomerContact *string `json:"customer_contact,omitempty" validate:"omitempty,max=255"`
	CustomerEmail   *string `json:"customer_email,omitempty" validate:"omitempty,email,max=255"`
}

// TicketStatusResponse is the read view of a ticket, including the derived status.
type TicketStatusResponse struct {
	ID              uuid.UUID    `json:"id"`
	Code            string       `json:"code"`
	CampaignID      uuid.UUID    `json:"campaign_id"`
	Status          TicketStatus `json:"status"`
	EffectiveStatus TicketStatus `json:"effective_status"`
	IssuedAt        time.Time    `json:"issued_at"`
	ExpiresAt       *time.Time   `json:"expires_at,omitempty"`
	UsedAt          *time.Time   `json:"used_at,omitempty"`
	UsedBy          *uuid.UUID   `json:"used_by,omitempty"`
	CustomerName    string       `json:"customer_name"`
}

type TicketRedeemResponse struct {
	OK     bool                  `json:"ok"`
	Ticket *TicketStatusResponse `json:"ticket"`
}
