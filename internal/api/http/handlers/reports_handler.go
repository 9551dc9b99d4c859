package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdeck/ticketing-service/internal/api/dto"
	"github.com/opsdeck/ticketing-service/internal/auth"
	"github.com/opsdeck/ticketing-service/internal/service"
	apperrors "github.com/opsdeck/ticketing-service/pkg/util"
)

// ReportsHandler exposes the read-only reporting endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Sidebar handles GET /api/reports/sidebar. The response shape depends on
// the caller's role, mirroring the role-scoped sidebar counters.
func (h *ReportsHandler) Sidebar(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no token, authorization denied")
	}

	if principal.IsAdmin() {
		stats, err := h.reports.AdminSidebar(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": dto.NewAdminSidebarResponse(stats)})
	}

	stats, err := h.reports.UserSidebar(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserSidebarResponse(stats)})
}

// UserStats handles GET /api/reports/user-stats.
func (h *ReportsHandler) UserStats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no token, authorization denied")
	}
	stats, err := h.reports.Stats(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserStatsResponse(stats)})
}

// AdminSummary handles GET /api/reports/admin-summary.
func (h *ReportsHandler) AdminSummary(c *fiber.Ctx) error {
	summary, err := h.reports.Summary(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAdminSummaryResponse(summary)})
}

// AdminKPIs handles GET /api/reports/admin-kpis.
func (h *ReportsHandler) AdminKPIs(c *fiber.Ctx) error {
	kpis, err := h.reports.KPIs(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAdminKPIsResponse(kpis)})
}
