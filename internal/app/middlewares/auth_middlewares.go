package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/services"
)

// SessionCookie carries the staff session token for browser clients.
const SessionCookie = "access_token"

type AuthMiddleware struct {
	authService *services.AuthService
}

func NewAuthMiddleware(authService *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// AuthAccount accepts a Bearer token or the session cookie.
func (m *AuthMiddleware) AuthAccount(c *fiber.Ctx) error {
	token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if token == "" {
		token = c.Cookies(SessionCookie)
	}
	if token == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
	}

	account, claims, err := m.authService.VerifySession(token)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	c.Locals("account", account)
	c.Locals("session", claims)
	c.Locals("user_id", account.ID.String())

	return c.Next()
}

// RequireRole must run after AuthAccount.
func (m *AuthMiddleware) RequireRole(roles ...models.AccountRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := CurrentAccount(c)
		if account == nil {
			return pkg.ErrorResponse(c, errors.NewUnauthorizedError("User is not authenticated"))
		}

		for _, role := range roles {
			if account.Role == role {
				return c.Next()
			}
		}

		return pkg.ErrorResponse(c, errors.NewForbiddenError("Insufficient role"))
	}
}

func CurrentAccount(c *fiber.Ctx) *models.Account {
	account, _ := c.Locals("account").(*models.Account)
	return account
}
