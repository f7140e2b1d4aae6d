package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"gorm.io/gorm"
)

type CampaignService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewCampaignService(db *gorm.DB, validator *infrastructures.Validator) *CampaignService {
	return &CampaignService{
		db:        db,
		validator: validator,
	}
}

func (s *CampaignService) CreateCampaign(ctx context.Context, actor *models.Account, req *models.CampaignCreateRequest) (*models.Campaign, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	businessID, err := s.resolveBusiness(actor, req.BusinessID)
	if err != nil {
		return nil, err
	}

	if req.EndsAt != nil && !req.EndsAt.After(req.StartsAt) {
		return nil, errors.NewBadRequestError("ends_at must be after starts_at")
	}

	campaignSlug := slug.Make(req.Name)
	if campaignSlug == "" {
		return nil, errors.NewBadRequestError("Campaign name must contain letters or digits")
	}

	campaign := &models.Campaign{
		BusinessID:          businessID,
		Name:                req.Name,
		Slug:                campaignSlug,
		Description:         req.Description,
		RewardValue:         req.RewardValue,
		StartsAt:            req.StartsAt.UTC(),
		TicketValidityHours: req.TicketValidityHours,
		Status:              models.CampaignStatusActive,
	}
	if req.EndsAt != nil {
		endsAt := req.EndsAt.UTC()
		campaign.EndsAt = &endsAt
	}

	if err := s.db.WithContext(ctx).Create(campaign).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.NewBadRequestError("A campaign with this name already exists")
		}
		return nil, errors.NewInternalServerError(err, "Failed to create campaign")
	}

	return campaign, nil
}

func (s *CampaignService) GetCampaignBySlug(businessID uuid.UUID, campaignSlug string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := s.db.Where("business_id = ? AND slug = ?", businessID, campaignSlug).First(&campaign).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Campaign not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get campaign")
	}

	return &campaign, nil
}

// GetCampaigns lists campaigns visible to actor. Admins may filter by business.
func (s *CampaignService) GetCampaigns(ctx context.Context, actor *models.Account, pagination *models.PaginationRequest, filter *models.CampaignFilter) (*models.Pagination[[]models.Campaign], error) {
	if err := s.validator.Validate(pagination); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(filter); err != nil {
		return nil, err
	}
	pagination.Normalize()

	var businessID *uuid.UUID
	if !actor.IsAdmin() {
		businessID = actor.BusinessID
		if businessID == nil {
			return nil, errors.NewForbiddenError("Account is not linked to a business")
		}
	} else if filter.BusinessID != nil {
		parsed, err := uuid.Parse(*filter.BusinessID)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid business ID format")
		}
		businessID = &parsed
	}

	scope := func(db *gorm.DB) *gorm.DB {
		if businessID != nil {
			db = db.Where("business_id = ?", *businessID)
		}
		return db
	}

	var totalItems int64
	if err := s.db.WithContext(ctx).Model(&models.Campaign{}).Scopes(scope).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count campaigns")
	}

	var campaigns []models.Campaign
	if err := s.db.WithContext(ctx).Scopes(scope).
		Order("starts_at DESC").
		Limit(pagination.Limit).
		Offset(pagination.Offset()).
		Find(&campaigns).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get campaigns")
	}

	return models.NewPagination(pagination, totalItems, campaigns), nil
}

// UpdateCampaignStatus pauses or resumes a campaign.
func (s *CampaignService) UpdateCampaignStatus(ctx context.Context, actor *models.Account, campaignId string, req *models.CampaignStatusUpdateRequest) (*models.Campaign, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	campaignUUID, err := uuid.Parse(campaignId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid campaign ID format")
	}

	var campaign models.Campaign
	if err := s.db.WithContext(ctx).Where("id = ?", campaignUUID).First(&campaign).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Campaign not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get campaign")
	}

	if !actor.CanManage(campaign.BusinessID) {
		return nil, errors.NewForbiddenError("Campaign belongs to another business")
	}

	if err := s.db.WithContext(ctx).Model(&campaign).Update("status", req.Status).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update campaign")
	}
	campaign.Status = req.Status

	return &campaign, nil
}

func (s *CampaignService) resolveBusiness(actor *models.Account, requested *string) (uuid.UUID, error) {
	if !actor.IsAdmin() {
		if actor.BusinessID == nil {
			return uuid.Nil, errors.NewForbiddenError("Account is not linked to a business")
		}
		return *actor.BusinessID, nil
	}

	if requested == nil {
		return uuid.Nil, errors.NewBadRequestError("business_id is required")
	}
	businessID, err := uuid.Parse(*requested)
	if err != nil {
		return uuid.Nil, errors.NewBadRequestError("Invalid business ID format")
	}
	return businessID, nil
}
