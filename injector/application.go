package injector

import (
	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/tapreview-core/internal/app/deliveries"
	"github.com/safatanc/tapreview-core/internal/app/middlewares"
	"github.com/safatanc/tapreview-core/internal/app/services"
	"github.com/safatanc/tapreview-core/pkg/ratelimit"
)

// Application represents the main application container for tapreview-core
type Application struct {
	HealthHandler       *deliveries.HealthHandler
	AuthHandler         *deliveries.AuthHandler
	TicketHandler       *deliveries.TicketHandler
	TapHandler          *deliveries.TapHandler
	CampaignHandler     *deliveries.CampaignHandler
	AdminHandler        *deliveries.AdminHandler
	RateLimitMiddleware *middlewares.RateLimitMiddleware
	NotificationService *services.NotificationService
	Scheduler           gocron.Scheduler
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	app.HealthHandler.RegisterRoutes(router)

	// Apply global rate limit for public API
	router.Use(app.RateLimitMiddleware.LimitByIP("public", ratelimit.PublicAPILimit))

	// Fixed prefixes first; tenant scoped /:username routes last
	app.AuthHandler.RegisterRoutes(router)
	app.TicketHandler.RegisterRoutes(router)
	app.CampaignHandler.RegisterRoutes(router)
	app.AdminHandler.RegisterRoutes(router)
	app.TapHandler.RegisterRoutes(router)
	app.CampaignHandler.RegisterPublicRoutes(router)
}

// Shutdown stops background jobs and waits for in-flight mail.
func (app *Application) Shutdown() error {
	err := app.Scheduler.Shutdown()
	app.NotificationService.Wait()
	return err
}
