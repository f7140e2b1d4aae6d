package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/metrics"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/repositories"
	"github.com/safatanc/tapreview-core/pkg/token"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TapClaimService turns a verified NFC tap into a review code.
type TapClaimService struct {
	db             *gorm.DB
	issuer         *token.Issuer
	accountService *AccountService
	reviewCodes    *repositories.ReviewCodeRepository
	now            pkg.Clock
	generateCode   pkg.CodeGenerator
}

func NewTapClaimService(db *gorm.DB, issuer *token.Issuer, accountService *AccountService, reviewCodes *repositories.ReviewCodeRepository, now pkg.Clock) *TapClaimService {
	return &TapClaimService{
		db:             db,
		issuer:         issuer,
		accountService: accountService,
		reviewCodes:    reviewCodes,
		now:            now,
		generateCode:   pkg.NewReviewCode,
	}
}

// TapClaimResult carries the code and the token that scopes the browser session to it.
type TapClaimResult struct {
	ReviewCode   *models.ReviewCode
	SessionToken string
	Resumed      bool
}

// IssueTapToken mints the presence token handed out on an NFC tap.
func (s *TapClaimService) IssueTapToken(ctx context.Context, username string) (string, time.Time, error) {
	if _, err := s.accountService.GetBusinessByUsername(username); err != nil {
		return "", time.Time{}, err
	}

	raw, err := s.issuer.Mint(token.Claims{
		Type:             token.TypeTap,
		RegisteredClaims: jwt.RegisteredClaims{Subject: username},
	}, token.TapTTL)
	if err != nil {
		return "", time.Time{}, errors.NewInternalServerError(err, "Failed to issue tap token")
	}

	return raw, s.now().Add(token.TapTTL), nil
}

// Claim returns the code already bound to codeCookie when it is still valid
// for username, and otherwise runs ClaimReviewCode.
func (s *TapClaimService) Claim(ctx context.Context, username, presentedToken, tapCookie, codeCookie string) (*TapClaimResult, error) {
	if existing, ok := s.ResumeSession(ctx, username, codeCookie); ok {
		metrics.RecordReviewCodeClaim("resumed")
		return &TapClaimResult{ReviewCode: existing, SessionToken: codeCookie, Resumed: true}, nil
	}

	reviewCode, err := s.ClaimReviewCode(ctx, username, presentedToken, tapCookie)
	if err != nil {
		return nil, err
	}

	sessionToken, err := s.issuer.Mint(token.Claims{
		Type:             token.TypeCode,
		Code:             reviewCode.Code,
		RegisteredClaims: jwt.RegisteredClaims{Subject: username},
	}, token.CodeTTL)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to issue code session")
	}

	return &TapClaimResult{ReviewCode: reviewCode, SessionToken: sessionToken}, nil
}

// ClaimReviewCode verifies that the tap token arrived both in the request and
// in the tap cookie, that it is unexpired and scoped to username, then inserts
// a fresh TT-XXXX-XX code valid for 24 hours.
func (s *TapClaimService) ClaimReviewCode(ctx context.Context, username, presentedToken, cookieToken string) (*models.ReviewCode, error) {
	start := time.Now()
	reviewCode, err := s.claimReviewCode(ctx, username, presentedToken, cookieToken)

	status := "success"
	outcome := "claimed"
	if err != nil {
		status = "failure"
		outcome = errorCode(err)
	}
	metrics.RecordClaimDuration("review_code", status, time.Since(start).Seconds())
	metrics.RecordReviewCodeClaim(outcome)

	return reviewCode, err
}

func (s *TapClaimService) claimReviewCode(ctx context.Context, username, presentedToken, cookieToken string) (*models.ReviewCode, error) {
	log := logrus.WithField("username", username)

	if !pkg.BoundChannels(presentedToken, cookieToken) {
		return nil, errors.NewTapRequiredError("Please tap the card again")
	}

	claims, err := s.issuer.VerifyType(presentedToken, token.TypeTap)
	if err != nil {
		if err == token.ErrExpired {
			return nil, errors.NewSessionExpiredError("Tap session expired, please tap again")
		}
		return nil, errors.NewInvalidTokenError("Invalid tap token")
	}
	if claims.Subject != username {
		return nil, errors.NewInvalidTokenError("Invalid tap token")
	}

	business, err := s.accountService.GetBusinessByUsername(username)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.CodeNotFound {
			return nil, errors.NewInvalidTokenError("Invalid tap token")
		}
		return nil, err
	}

	var reviewCode *models.ReviewCode
	_, attempts, err := pkg.GenerateUnique(pkg.MaxCodeAttempts, s.generateCode, func(code string) error {
		now := s.now()
		candidate := &models.ReviewCode{
			Code:       code,
			BusinessID: business.ID,
			Username:   business.Username,
			CreatedAt:  now,
			ExpiresAt:  now.Add(token.CodeTTL),
		}
		if err := s.reviewCodes.Create(s.db.WithContext(ctx), candidate); err != nil {
			return err
		}
		reviewCode = candidate
		return nil
	})
	metrics.RecordCodeAttempts("review_code", attempts)
	if err != nil {
		if err == pkg.ErrCodeSpaceExhausted {
			return nil, errors.NewGenerationFailedError(err, "Could not generate a unique review code")
		}
		return nil, errors.NewInternalServerError(err, "Failed to create review code")
	}

	log.WithFields(logrus.Fields{
		"review_code": reviewCode.Code,
		"attempts":    attempts,
	}).Info("review code claimed")

	return reviewCode, nil
}

// ResumeSession returns the code bound to a code-session token when the token
// is valid, scoped to username, and the code has not expired.
func (s *TapClaimService) ResumeSession(ctx context.Context, username, sessionToken string) (*models.ReviewCode, bool) {
	if sessionToken == "" {
		return nil, false
	}

	claims, err := s.issuer.VerifyType(sessionToken, token.TypeCode)
	if err != nil || claims.Subject != username || claims.Code == "" {
		return nil, false
	}

	reviewCode, err := s.reviewCodes.FindByCode(s.db.WithContext(ctx), claims.Code)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logrus.WithError(err).Warn("failed to resume code session")
		}
		return nil, false
	}
	if reviewCode.Username != username || reviewCode.IsExpiredAt(s.now()) {
		return nil, false
	}

	return reviewCode, true
}

func errorCode(err error) string {
	if appErr, ok := err.(*errors.AppError); ok && appErr.Code != "" {
		return appErr.Code
	}
	return errors.CodeInternal
}
