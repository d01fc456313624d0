package handlers

import (
	"geomaqui-os/internal/core/services"
	"geomaqui-os/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles the landing screen counters
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns the dashboard counters for the caller
// @Summary Dashboard stats
// @Description Schedule and staff counters. Technicians only see their own assignments counted.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	return response.Success(c, "", h.dashboardService.Stats(actorFromCtx(c)))
}
