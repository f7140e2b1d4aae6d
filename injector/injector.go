//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	"github.com/safatanc/tapreview-core/internal/app/deliveries"
	"github.com/safatanc/tapreview-core/internal/app/middlewares"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/repositories"
	"github.com/safatanc/tapreview-core/internal/app/services"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
)

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewValidator,
	infrastructures.NewMemoryRateLimiter,
	infrastructures.NewRateLimiter,
	infrastructures.NewScheduler,
	infrastructures.NewTokenIssuer,
	infrastructures.NewMailer,
	pkg.NewClock,
)

// Repository providers
var repositorySet = wire.NewSet(
	repositories.NewTicketRepository,
	repositories.NewReviewCodeRepository,
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewAccountService,
	services.NewAuditService,
	services.NewAuthService,
	services.NewCampaignService,
	services.NewNotificationService,
	services.NewTicketIssueService,
	services.NewTicketRedemptionService,
	services.NewTapClaimService,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewAuthMiddleware,
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewAuthHandler,
	deliveries.NewTicketHandler,
	deliveries.NewTapHandler,
	deliveries.NewCampaignHandler,
	deliveries.NewAdminHandler,
	wire.Struct(new(Application), "*"), // This tells Wire to build the Application struct
)

// InitializeApplication initializes the application with all its dependencies
func InitializeApplication(config *infrastructures.AppConfig) (*Application, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		serviceSet,
		middlewareSet,
		handlerSet,
	)
	return &Application{}, nil // Wire will populate the Application struct based on handlerSet
}
