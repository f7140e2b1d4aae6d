package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionTicketRedeemed AuditAction = "TICKET_REDEEMED"
	AuditActionImpersonation  AuditAction = "IMPERSONATION"
)

const AuditOutcomeSuccess = "SUCCESS"

var ErrAuditAppendOnly = errors.New("audit logs are append-only")

// AuditLog is an append-only record of a security-relevant action.
type AuditLog struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Action    AuditAction `json:"action" gorm:"size:32;not null;index"`
	SubjectID uuid.UUID   `json:"subject_id" gorm:"type:uuid;not null;index"`
	ActorID   uuid.UUID   `json:"actor_id" gorm:"type:uuid;not null"`
	Outcome   string      `json:"outcome" gorm:"size:32;not null"`
	IPAddress *string     `json:"ip_address" gorm:"size:45"`
	UserAgent *string     `json:"user_agent" gorm:"size:255"`
	Metadata  *string     `json:"metadata" gorm:"type:text"`
	CreatedAt time.Time   `json:"created_at" gorm:"not null"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditAppendOnly
}

func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditAppendOnly
}

// RequestMeta is the request context recorded next to an audited action.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type AuditLogFilter struct {
	Action    *string `query:"action" validate:"omitempty,oneof=TICKET_REDEEMED IMPERSONATION"`
	SubjectID *string `query:"subject_id" validate:"omitempty,uuid"`
}
