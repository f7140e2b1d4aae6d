package services

import (
	"context"
	"time"

	"github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/metrics"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/repositories"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TicketIssueService issues single-use tickets to customers claiming a running campaign.
type TicketIssueService struct {
	db                  *gorm.DB
	validator           *infrastructures.Validator
	tickets             *repositories.TicketRepository
	accountService      *AccountService
	campaignService     *CampaignService
	notificationService *NotificationService
	now                 pkg.Clock
	generateCode        pkg.CodeGenerator
}

func NewTicketIssueService(
	db *gorm.DB,
	validator *infrastructures.Validator,
	tickets *repositories.TicketRepository,
	accountService *AccountService,
	campaignService *CampaignService,
	notificationService *NotificationService,
	now pkg.Clock,
) *TicketIssueService {
	return &TicketIssueService{
		db:                  db,
		validator:           validator,
		tickets:             tickets,
		accountService:      accountService,
		campaignService:     campaignService,
		notificationService: notificationService,
		now:                 now,
		generateCode:        pkg.NewTicketCode,
	}
}

func (s *TicketIssueService) IssueTicket(ctx context.Context, username, campaignSlug string, req *models.TicketClaimRequest) (*models.Ticket, error) {
	start := time.Now()
	ticket, err := s.issueTicket(ctx, username, campaignSlug, req)

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RecordClaimDuration("ticket", status, time.Since(start).Seconds())

	return ticket, err
}

func (s *TicketIssueService) issueTicket(ctx context.Context, username, campaignSlug string, req *models.TicketClaimRequest) (*models.Ticket, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	business, err := s.accountService.GetBusinessByUsername(username)
	if err != nil {
		return nil, err
	}

	campaign, err := s.campaignService.GetCampaignBySlug(business.ID, campaignSlug)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if campaign.EndsAt != nil && !now.Before(*campaign.EndsAt) {
		return nil, errors.NewExpiredError("Campaign has ended")
	}
	if !campaign.IsRunning(now) {
		return nil, errors.NewForbiddenError("Campaign is not accepting claims")
	}

	var validityEnd *time.Time
	if campaign.TicketValidityHours > 0 {
		validityEnd = pkg.TimePtr(now.Add(time.Duration(campaign.TicketValidityHours) * time.Hour))
	}
	expiresAt := pkg.EarliestTime(campaign.EndsAt, validityEnd)

	var ticket *models.Ticket
	_, attempts, err := pkg.GenerateUnique(pkg.MaxCodeAttempts, s.generateCode, func(code string) error {
		candidate := &models.Ticket{
			Code:            code,
			CampaignID:      campaign.ID,
			Status:          models.TicketStatusActive,
			IssuedAt:        now,
			ExpiresAt:       expiresAt,
			CustomerName:    req.CustomerName,
			CustomerContact: req.CustomerContact,
			CustomerEmail:   req.CustomerEmail,
		}
		if err := s.tickets.Create(s.db.WithContext(ctx), candidate); err != nil {
			return err
		}
		ticket = candidate
		return nil
	})
	metrics.RecordCodeAttempts("ticket", attempts)
	if err != nil {
		if err == pkg.ErrCodeSpaceExhausted {
			return nil, errors.NewGenerationFailedError(err, "Could not generate a unique ticket code")
		}
		return nil, errors.NewInternalServerError(err, "Failed to create ticket")
	}
	ticket.Campaign = campaign

	logrus.WithFields(logrus.Fields{
		"ticket":   ticket.Code,
		"campaign": campaign.ID,
		"attempts": attempts,
	}).Info("ticket issued")

	if req.CustomerEmail != nil && *req.CustomerEmail != "" {
		s.notificationService.SendTicketAsync(ticket, campaign, business, *req.CustomerEmail)
	}

	return ticket, nil
}
