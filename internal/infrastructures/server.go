package infrastructures

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
)

// NewFiberConfig builds the server config. X-Forwarded-For is honoured only
// from addresses listed in TRUSTED_PROXIES, and only its valid IP entries.
func NewFiberConfig(config *AppConfig) fiber.Config {
	return fiber.Config{
		ReadTimeout:  time.Second * 60,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return pkg.ErrorResponse(c, err)
		},
		DisableStartupMessage: config.IsProduction(),

		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          config.TrustedProxies,
		EnableIPValidation:      true,
	}
}
