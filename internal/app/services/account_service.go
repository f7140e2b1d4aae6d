package services

import (
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewAccountService(db *gorm.DB, validator *infrastructures.Validator) *AccountService {
	return &AccountService{
		db:        db,
		validator: validator,
	}
}

func (s *AccountService) CreateBusiness(req *models.BusinessCreateRequest) (*models.Business, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if !slug.IsSlug(req.Username) {
		return nil, errors.NewBadRequestError("Business username must be lowercase letters, digits and dashes")
	}

	business := &models.Business{
		Username:     req.Username,
		Name:         req.Name,
		ReviewURL:    req.ReviewURL,
		ContactEmail: req.ContactEmail,
	}

	if err := s.db.Create(business).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.NewBadRequestError("Business username already taken")
		}
		return nil, errors.NewInternalServerError(err, "Failed to create business")
	}

	return business, nil
}

func (s *AccountService) CreateAccount(req *models.AccountCreateRequest) (*models.Account, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.Role != models.AccountRoleAdmin && req.BusinessID == nil {
		return nil, errors.NewBadRequestError("Business is required for staff and owner accounts")
	}

	var businessID *uuid.UUID
	if req.BusinessID != nil {
		parsed, err := uuid.Parse(*req.BusinessID)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid business ID format")
		}
		businessID = &parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to hash password")
	}

	account := &models.Account{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		BusinessID:   businessID,
	}

	if err := s.db.Create(account).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.NewBadRequestError("Account already exists")
		}
		return nil, errors.NewInternalServerError(err, "Failed to create account")
	}

	return account, nil
}

func (s *AccountService) GetAccount(accountId string) (*models.Account, error) {
	accountUUID, err := uuid.Parse(accountId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid account ID format")
	}

	var account models.Account
	err = s.db.Where("id = ?", accountUUID).First(&account).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Account not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get account")
	}

	return &account, nil
}

func (s *AccountService) GetAccountByUsername(username string) (*models.Account, error) {
	var account models.Account
	err := s.db.Where("username = ?", username).First(&account).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Account not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get account")
	}

	return &account, nil
}

func (s *AccountService) GetBusinessByUsername(username string) (*models.Business, error) {
	var business models.Business
	err := s.db.Where("username = ?", username).First(&business).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Business not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get business")
	}

	return &business, nil
}

// Authenticate checks a username and password pair.
func (s *AccountService) Authenticate(username, password string) (*models.Account, error) {
	account, err := s.GetAccountByUsername(username)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.CodeNotFound {
			return nil, errors.NewUnauthorizedError("Invalid username or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewUnauthorizedError("Invalid username or password")
	}

	return account, nil
}
