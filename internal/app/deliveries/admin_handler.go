package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/tapreview-core/internal/app/middlewares"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/services"
)

type AdminHandler struct {
	authService    *services.AuthService
	auditService   *services.AuditService
	authMiddleware *middlewares.AuthMiddleware
}

func NewAdminHandler(authService *services.AuthService, auditService *services.AuditService, authMiddleware *middlewares.AuthMiddleware) *AdminHandler {
	return &AdminHandler{
		authService:    authService,
		auditService:   auditService,
		authMiddleware: authMiddleware,
	}
}

func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminGroup := router.Group("/admin",
		h.authMiddleware.AuthAccount,
		h.authMiddleware.RequireRole(models.AccountRoleAdmin),
	)

	adminGroup.Post("/impersonate/:username", h.Impersonate)
	adminGroup.Get("/audit-logs", h.GetAuditLogs)
}

func (h *AdminHandler) Impersonate(c *fiber.Ctx) error {
	session, err := h.authService.Impersonate(c.UserContext(), middlewares.CurrentAccount(c), c.Params("username"), pkg.RequestMeta(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, session)
}

func (h *AdminHandler) GetAuditLogs(c *fiber.Ctx) error {
	var pagination models.PaginationRequest
	if err := c.QueryParser(&pagination); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	var filter models.AuditLogFilter
	if err := c.QueryParser(&filter); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	logs, err := h.auditService.GetAuditLogs(&pagination, &filter)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, logs)
}
