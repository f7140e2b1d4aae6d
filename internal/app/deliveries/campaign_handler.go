package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/tapreview-core/internal/app/middlewares"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/services"
	"github.com/safatanc/tapreview-core/pkg/ratelimit"
)

type CampaignHandler struct {
	campaignService     *services.CampaignService
	ticketIssueService  *services.TicketIssueService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewCampaignHandler(campaignService *services.CampaignService, ticketIssueService *services.TicketIssueService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *CampaignHandler {
	return &CampaignHandler{
		campaignService:     campaignService,
		ticketIssueService:  ticketIssueService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *CampaignHandler) RegisterRoutes(router fiber.Router) {
	campaignGroup := router.Group("/campaigns",
		h.authMiddleware.AuthAccount,
		h.authMiddleware.RequireRole(models.AccountRoleOwner, models.AccountRoleAdmin),
	)

	campaignGroup.Post("/", h.CreateCampaign)
	campaignGroup.Get("/", h.GetCampaigns)
	campaignGroup.Patch("/:id/status", h.UpdateCampaignStatus)
}

// RegisterPublicRoutes registers the customer facing claim route. It sits
// under /:username and must be registered after every fixed prefix.
func (h *CampaignHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Post("/:username/campaigns/:slug/claim", h.rateLimitMiddleware.LimitByIP("claim", ratelimit.ClaimLimit), h.ClaimTicket)
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req models.CampaignCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	campaign, err := h.campaignService.CreateCampaign(c.UserContext(), middlewares.CurrentAccount(c), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.WebResponse[*models.Campaign]{
		Success: true,
		Data:    campaign,
	})
}

func (h *CampaignHandler) GetCampaigns(c *fiber.Ctx) error {
	var pagination models.PaginationRequest
	if err := c.QueryParser(&pagination); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	var filter models.CampaignFilter
	if err := c.QueryParser(&filter); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	campaigns, err := h.campaignService.GetCampaigns(c.UserContext(), middlewares.CurrentAccount(c), &pagination, &filter)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, campaigns)
}

func (h *CampaignHandler) UpdateCampaignStatus(c *fiber.Ctx) error {
	var req models.CampaignStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	campaign, err := h.campaignService.UpdateCampaignStatus(c.UserContext(), middlewares.CurrentAccount(c), c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, campaign)
}

func (h *CampaignHandler) ClaimTicket(c *fiber.Ctx) error {
	var req models.TicketClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	ticket, err := h.ticketIssueService.IssueTicket(c.UserContext(), c.Params("username"), c.Params("slug"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.WebResponse[*models.Ticket]{
		Success: true,
		Data:    ticket,
	})
}
