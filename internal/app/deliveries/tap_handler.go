package deliveries

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/tapreview-core/internal/app/middlewares"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/services"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"github.com/safatanc/tapreview-core/pkg/ratelimit"
	"github.com/safatanc/tapreview-core/pkg/token"
)

const (
	TapSessionCookie  = "tap_session"
	CodeSessionCookie = "code_session"
)

type TapHandler struct {
	tapClaimService     *services.TapClaimService
	rateLimitMiddleware *middlewares.RateLimitMiddleware
	config              *infrastructures.AppConfig
}

func NewTapHandler(tapClaimService *services.TapClaimService, rateLimitMiddleware *middlewares.RateLimitMiddleware, config *infrastructures.AppConfig) *TapHandler {
	return &TapHandler{
		tapClaimService:     tapClaimService,
		rateLimitMiddleware: rateLimitMiddleware,
		config:              config,
	}
}

func (h *TapHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/tap/:username", h.rateLimitMiddleware.LimitByIP("tap", ratelimit.TapLimit), h.Tap)
	router.Post("/:username/tap-claim", h.rateLimitMiddleware.LimitByIP("claim", ratelimit.ClaimLimit), h.ClaimReviewCode)
}

// Tap is the landing URL written on the NFC card.
func (h *TapHandler) Tap(c *fiber.Ctx) error {
	username := c.Params("username")

	raw, expiresAt, err := h.tapClaimService.IssueTapToken(c.UserContext(), username)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	c.Cookie(h.cookie(TapSessionCookie, raw, expiresAt, token.TapTTL))

	target := fmt.Sprintf("%s/%s?tap=%s", h.config.PublicBaseURL, url.PathEscape(username), url.QueryEscape(raw))
	return c.Redirect(target, fiber.StatusFound)
}

func (h *TapHandler) ClaimReviewCode(c *fiber.Ctx) error {
	username := c.Params("username")

	var req models.TapClaimRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return pkg.ErrorResponse(c, err)
		}
	}
	if req.Token == "" {
		req.Token = c.Query("tap")
	}

	result, err := h.tapClaimService.Claim(
		c.UserContext(),
		username,
		req.Token,
		c.Cookies(TapSessionCookie),
		c.Cookies(CodeSessionCookie),
	)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	if !result.Resumed {
		c.Cookie(h.expiredCookie(TapSessionCookie))
		c.Cookie(h.cookie(CodeSessionCookie, result.SessionToken, result.ReviewCode.ExpiresAt, token.CodeTTL))
	}

	return c.JSON(models.TapClaimResponse{
		Success:    true,
		ReviewCode: result.ReviewCode.Code,
		ExpiresAt:  result.ReviewCode.ExpiresAt,
		Resumed:    result.Resumed,
	})
}

func (h *TapHandler) cookie(name, value string, expiresAt time.Time, ttl time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(ttl.Seconds()),
		Secure:   h.config.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func (h *TapHandler) expiredCookie(name string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   h.config.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
