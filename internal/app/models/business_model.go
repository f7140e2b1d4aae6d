package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is the tenant that owns a public profile, NFC cards and campaigns.
type Business struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	ReviewURL    *string   `gorm:"size:512" json:"review_url,omitempty"`
	ContactEmail *string   `gorm:"size:255" json:"contact_email,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type BusinessCreateRequest struct {
	Username     string  `json:"username" validate:"required,min=3,max=64"`
	Name         string  `json:"name" validate:"required,max=255"`
	ReviewURL    *string `json:"review_url,omitempty" validate:"omitempty,url,max=512"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
}
