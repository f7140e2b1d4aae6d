package services

import (
	"context"

	"github.com/jinzhu/copier"
	"github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/metrics"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/repositories"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TicketRedemptionService struct {
	db           *gorm.DB
	config       *infrastructures.AppConfig
	tickets      *repositories.TicketRepository
	auditService *AuditService
	now          pkg.Clock
}

func NewTicketRedemptionService(db *gorm.DB, config *infrastructures.AppConfig, tickets *repositories.TicketRepository, auditService *AuditService, now pkg.Clock) *TicketRedemptionService {
	return &TicketRedemptionService{
		db:           db,
		config:       config,
		tickets:      tickets,
		auditService: auditService,
		now:          now,
	}
}

// Redeem consumes a ticket on behalf of actor. Exactly one concurrent caller
// succeeds; the rest get AlreadyUsed. The audit entry is written in the same
// transaction as the status change, so a rolled back redemption leaves no trace.
func (s *TicketRedemptionService) Redeem(ctx context.Context, code string, actor *models.Account, meta models.RequestMeta) (*models.Ticket, error) {
	code = pkg.NormalizeCode(code)
	log := logrus.WithFields(logrus.Fields{
		"code":  code,
		"actor": actor.ID,
	})

	var redeemed *models.Ticket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, err := s.tickets.FindByCode(tx, code)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NewNotFoundError("Ticket not found")
			}
			return err
		}

		if ticket.Campaign == nil || !actor.CanManage(ticket.Campaign.BusinessID) {
			return errors.NewForbiddenError("Ticket belongs to another business")
		}

		if ticket.Status == models.TicketStatusUsed {
			return errors.NewAlreadyUsedError("Ticket has already been used")
		}

		now := s.now()
		applied, err := s.tickets.MarkUsed(tx, ticket.ID, actor.ID, now)
		if err != nil {
			return err
		}

		if !applied {
			current, err := s.tickets.FindByCode(tx, code)
			if err != nil {
				return err
			}
			if current.Status == models.TicketStatusUsed {
				return errors.NewAlreadyUsedError("Ticket has already been used")
			}
			return errors.NewExpiredError("Ticket has expired")
		}

		ticket.Status = models.TicketStatusUsed
		ticket.UsedAt = &now
		ticket.UsedBy = &actor.ID

		if _, err := s.auditService.Record(tx, AuditEntry{
			Action:    models.AuditActionTicketRedeemed,
			SubjectID: ticket.ID,
			ActorID:   actor.ID,
			Meta:      meta,
			Metadata: map[string]interface{}{
				"code":        ticket.Code,
				"campaign_id": ticket.CampaignID,
				"business_id": ticket.Campaign.BusinessID,
			},
		}); err != nil {
			return err
		}

		redeemed = ticket
		return nil
	})

	outcome := redemptionOutcome(err)
	metrics.RecordRedemption(outcome)

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			log.WithField("outcome", outcome).Info("ticket redemption rejected")
			return nil, err
		}
		return nil, errors.NewInternalServerError(err, "Failed to redeem ticket")
	}

	log.WithField("outcome", outcome).Info("ticket redeemed")
	return redeemed, nil
}

// GetStatus returns the stored ticket with its derived status.
func (s *TicketRedemptionService) GetStatus(ctx context.Context, code string, actor *models.Account) (*models.TicketStatusResponse, error) {
	ticket, err := s.getManagedTicket(ctx, code, actor)
	if err != nil {
		return nil, err
	}
	return s.ToStatusResponse(ticket)
}

// GetQRCode renders the redemption link of a ticket as PNG.
func (s *TicketRedemptionService) GetQRCode(ctx context.Context, code string, actor *models.Account) ([]byte, error) {
	ticket, err := s.getManagedTicket(ctx, code, actor)
	if err != nil {
		return nil, err
	}

	png, err := pkg.GenerateQRCode(pkg.TicketRedeemURL(s.config.PublicBaseURL, ticket.Code), pkg.QRCodeSize)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to generate QR code")
	}
	return png, nil
}

func (s *TicketRedemptionService) ToStatusResponse(ticket *models.Ticket) (*models.TicketStatusResponse, error) {
	var response models.TicketStatusResponse
	if err := copier.Copy(&response, ticket); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to map ticket")
	}
	response.EffectiveStatus = ticket.EffectiveStatus(s.now())
	return &response, nil
}

func (s *TicketRedemptionService) getManagedTicket(ctx context.Context, code string, actor *models.Account) (*models.Ticket, error) {
	ticket, err := s.tickets.FindByCode(s.db.WithContext(ctx), pkg.NormalizeCode(code))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Ticket not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get ticket")
	}

	if ticket.Campaign == nil || !actor.CanManage(ticket.Campaign.BusinessID) {
		return nil, errors.NewForbiddenError("Ticket belongs to another business")
	}
	return ticket, nil
}

func redemptionOutcome(err error) string {
	appErr, ok := err.(*errors.AppError)
	switch {
	case err == nil:
		return "redeemed"
	case !ok:
		return "error"
	case appErr.Code == errors.CodeAlreadyUsed:
		return "already_used"
	case appErr.Code == errors.CodeExpired:
		return "expired"
	case appErr.Code == errors.CodeNotFound:
		return "not_found"
	case appErr.Code == errors.CodeForbidden:
		return "forbidden"
	default:
		return "error"
	}
}
