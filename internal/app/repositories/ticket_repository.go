package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"gorm.io/gorm"
)

// TicketRepository handles ticket data operations. Every method takes the
// handle to run on so callers can pass a transaction.
type TicketRepository struct{}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{}
}

// FindByCode loads a ticket with its campaign. It returns gorm.ErrRecordNotFound when absent.
func (r *TicketRepository) FindByCode(db *gorm.DB, code string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := db.Preload("Campaign").Where("code = ?", code).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// MarkUsed flips an ACTIVE, unexpired ticket to USED in one conditional
// UPDATE. A ticket is expired only once now is past expires_at, matching
// Ticket.IsExpiredAt. applied is false when the row no longer matches the
// guard, meaning another caller won or the ticket expired.
func (r *TicketRepository) MarkUsed(db *gorm.DB, ticketID, actorID uuid.UUID, now time.Time) (bool, error) {
	result := db.Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticketID, models.TicketStatusActive).
		Where("expires_at IS NULL OR expires_at >= ?", now).
		Updates(map[string]interface{}{
			"status":  models.TicketStatusUsed,
			"used_at": now,
			"used_by": actorID,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark ticket as used: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *TicketRepository) Create(db *gorm.DB, ticket *models.Ticket) error {
	return db.Create(ticket).Error
}

func (r *TicketRepository) CountByCampaign(db *gorm.DB, campaignID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&models.Ticket{}).Where("campaign_id = ?", campaignID).Count(&count).Error
	return count, err
}
