package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewCode proves a verified tap happened; customers attach it to a review.
type ReviewCode struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code       string    `gorm:"size:16;uniqueIndex;not null" json:"code"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"business_id"`
	Username   string    `gorm:"size:64;not null" json:"username"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
}

func (r *ReviewCode) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *ReviewCode) IsExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

type TapClaimRequest struct {
	Token string `json:"token" form:"token" validate:"omitempty,max=2048"`
}

type TapClaimResponse struct {
	Success    bool      `json:"success"`
	ReviewCode string    `json:"reviewCode"`
	ExpiresAt  time.Time `json:"expiresAt"`
	// Resumed is true when the code came from an existing code session.
	Resumed bool `json:"resumed,omitempty"`
}
