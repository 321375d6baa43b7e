package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/service"
	apperrors "github.com/spec-kit/sla-service/pkg/util"
)

// ConfigHandler serves the SLA configuration for the settings screens.
type ConfigHandler struct {
	service *service.ConfigService
}

// NewConfigHandler constructs handler.
func NewConfigHandler(configService *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{service: configService}
}

// Get GET /api/config.
func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Get()})
}

// Update PUT /api/config.
func (h *ConfigHandler) Update(c *fiber.Ctx) error {
	var cfg domain.SLAConfiguration
	if err := c.BodyParser(&cfg); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.Update(c.Context(), cfg); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.service.Get()})
}
