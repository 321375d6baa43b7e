package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-service/internal/service"
)

// DashboardHandler serves aggregated read models for dashboard cards and
// alert banners.
type DashboardHandler struct {
	service *service.TrackingService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(trackingService *service.TrackingService) *DashboardHandler {
	return &DashboardHandler{service: trackingService}
}

// Metrics GET /api/dashboard/metrics.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	metrics, err := h.service.DashboardMetrics(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}

// Violations GET /api/dashboard/violations.
func (h *DashboardHandler) Violations(c *fiber.Ctx) error {
	violations, err := h.service.Violations(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trackingResponses(violations)})
}

// Approaching GET /api/dashboard/approaching.
func (h *DashboardHandler) Approaching(c *fiber.Ctx) error {
	approaching, err := h.service.Approaching(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trackingResponses(approaching)})
}
