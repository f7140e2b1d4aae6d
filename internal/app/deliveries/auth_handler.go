package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/tapreview-core/internal/app/middlewares"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/services"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"github.com/safatanc/tapreview-core/pkg/ratelimit"
)

type AuthHandler struct {
	authService         *services.AuthService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
	config              *infrastructures.AppConfig
}

func NewAuthHandler(authService *services.AuthService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware, config *infrastructures.AppConfig) *AuthHandler {
	return &AuthHandler{
		authService:         authService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
		config:              config,
	}
}

func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authGroup := router.Group("/auth")

	authGroup.Post("/login", h.rateLimitMiddleware.LimitByIP("login", ratelimit.LoginLimit), h.Login)
	authGroup.Get("/me", h.authMiddleware.AuthAccount, h.GetMe)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	session, err := h.authService.Login(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middlewares.SessionCookie,
		Value:    session.AccessToken,
		Path:     "/",
		Expires:  session.ExpiresAt,
		Secure:   h.config.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return pkg.SuccessResponse(c, session)
}

func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	return pkg.SuccessResponse(c, middlewares.CurrentAccount(c))
}
