package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/tapreview-core/internal/app/middlewares"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/services"
	"github.com/safatanc/tapreview-core/pkg/ratelimit"
)

type TicketHandler struct {
	redemptionService   *services.TicketRedemptionService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewTicketHandler(redemptionService *services.TicketRedemptionService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *TicketHandler {
	return &TicketHandler{
		redemptionService:   redemptionService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *TicketHandler) RegisterRoutes(router fiber.Router) {
	ticketGroup := router.Group("/tickets", h.authMiddleware.AuthAccount)

	ticketGroup.Post("/:code/use", h.rateLimitMiddleware.LimitByUser("redeem", ratelimit.RedemptionLimit), h.UseTicket)
	ticketGroup.Get("/:code/status", h.GetTicketStatus)
	ticketGroup.Get("/:code/qrcode", h.GetTicketQRCode)
}

func (h *TicketHandler) UseTicket(c *fiber.Ctx) error {
	account := middlewares.CurrentAccount(c)

	ticket, err := h.redemptionService.Redeem(c.UserContext(), c.Params("code"), account, pkg.RequestMeta(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	status, err := h.redemptionService.ToStatusResponse(ticket)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return c.JSON(models.TicketRedeemResponse{
		OK:     true,
		Ticket: status,
	})
}

func (h *TicketHandler) GetTicketStatus(c *fiber.Ctx) error {
	account := middlewares.CurrentAccount(c)

	status, err := h.redemptionService.GetStatus(c.UserContext(), c.Params("code"), account)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, status)
}

func (h *TicketHandler) GetTicketQRCode(c *fiber.Ctx) error {
	account := middlewares.CurrentAccount(c)

	png, err := h.redemptionService.GetQRCode(c.UserContext(), c.Params("code"), account)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
