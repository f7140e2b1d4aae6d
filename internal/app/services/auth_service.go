package services

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"github.com/safatanc/tapreview-core/pkg/token"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthService issues and verifies staff session tokens.
type AuthService struct {
	db             *gorm.DB
	validator      *infrastructures.Validator
	issuer         *token.Issuer
	accountService *AccountService
	auditService   *AuditService
	now            pkg.Clock
}

func NewAuthService(db *gorm.DB, validator *infrastructures.Validator, issuer *token.Issuer, accountService *AccountService, auditService *AuditService, now pkg.Clock) *AuthService {
	return &AuthService{
		db:             db,
		validator:      validator,
		issuer:         issuer,
		accountService: accountService,
		auditService:   auditService,
		now:            now,
	}
}

func (s *AuthService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	account, err := s.accountService.Authenticate(req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.mintSession(account, "")
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   s.now().Add(token.SessionTTL),
		Account:     account,
	}, nil
}

// VerifySession resolves a session token to its account.
func (s *AuthService) VerifySession(raw string) (*models.Account, *token.Claims, error) {
	claims, err := s.issuer.VerifyType(raw, token.TypeSession)
	if err != nil {
		if err == token.ErrExpired {
			return nil, nil, errors.NewUnauthorizedError("Session expired")
		}
		return nil, nil, errors.NewUnauthorizedError("Invalid session")
	}

	account, err := s.accountService.GetAccount(claims.Subject)
	if err != nil {
		return nil, nil, errors.NewUnauthorizedError("Invalid session")
	}

	return account, claims, nil
}

// Impersonate mints a session for the account named username on behalf of
// admin. The audit entry commits before the token is returned.
func (s *AuthService) Impersonate(ctx context.Context, admin *models.Account, username string, meta models.RequestMeta) (*models.ImpersonationResponse, error) {
	if !admin.IsAdmin() {
		return nil, errors.NewForbiddenError("Only admins can impersonate")
	}

	target, err := s.accountService.GetAccountByUsername(username)
	if err != nil {
		return nil, err
	}
	if target.ID == admin.ID {
		return nil, errors.NewBadRequestError("Cannot impersonate yourself")
	}

	var accessToken string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.auditService.Record(tx, AuditEntry{
			Action:    models.AuditActionImpersonation,
			SubjectID: target.ID,
			ActorID:   admin.ID,
			Meta:      meta,
			Metadata: map[string]interface{}{
				"target_username": target.Username,
				"target_role":     target.Role,
			},
		}); err != nil {
			return err
		}

		minted, err := s.mintSession(target, admin.ID.String())
		if err != nil {
			return err
		}
		accessToken = minted
		return nil
	})
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.NewInternalServerError(err, "Failed to impersonate account")
	}

	logrus.WithFields(logrus.Fields{
		"admin":  admin.ID,
		"target": target.ID,
	}).Warn("admin impersonation session issued")

	return &models.ImpersonationResponse{
		AccessToken:    accessToken,
		ExpiresAt:      s.now().Add(token.SessionTTL),
		Account:        target,
		ImpersonatedBy: admin.ID,
	}, nil
}

func (s *AuthService) mintSession(account *models.Account, impersonator string) (string, error) {
	raw, err := s.issuer.Mint(token.Claims{
		Type:         token.TypeSession,
		Role:         string(account.Role),
		Impersonator: impersonator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: account.ID.String(),
			ID:      uuid.NewString(),
		},
	}, token.SessionTTL)
	if err != nil {
		return "", errors.NewInternalServerError(err, "Failed to issue session")
	}
	return raw, nil
}
