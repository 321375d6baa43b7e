package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-service/internal/api/dto"
	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/repository"
	"github.com/spec-kit/sla-service/internal/service"
	apperrors "github.com/spec-kit/sla-service/pkg/util"
)

// TrackingsHandler manages SLA tracking endpoints.
type TrackingsHandler struct {
	service *service.TrackingService
}

// NewTrackingsHandler constructs handler.
func NewTrackingsHandler(trackingService *service.TrackingService) *TrackingsHandler {
	return &TrackingsHandler{service: trackingService}
}

// Create POST /api/trackings.
func (h *TrackingsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EntityType == "" || req.EntityID == "" || req.SLAType == "" {
		return apperrors.NewValidationError("entity_type, entity_id, sla_type required", nil)
	}

	tracking, err := h.service.Create(c.Context(), service.CreateTrackingInput{
		EntityType:   req.EntityType,
		EntityID:     req.EntityID,
		SLAType:      req.SLAType,
		StartTime:    req.StartTime,
		Priority:     req.Priority,
		CustomConfig: req.CustomConfig,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTrackingResponse(tracking)})
}

// List GET /api/trackings.
func (h *TrackingsHandler) List(c *fiber.Ctx) error {
	trackings, err := h.service.List(c.Context(), parseTrackingQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trackingResponses(trackings)})
}

// Get GET /api/trackings/:id.
func (h *TrackingsHandler) Get(c *fiber.Ctx) error {
	tracking, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTrackingResponse(tracking)})
}

// Complete POST /api/trackings/:id/complete.
func (h *TrackingsHandler) Complete(c *fiber.Ctx) error {
	tracking, err := h.service.Complete(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTrackingResponse(tracking)})
}

// Update PATCH /api/trackings/:id.
func (h *TrackingsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tracking, err := h.service.Update(c.Context(), c.Params("id"), service.UpdateTrackingInput{
		Description: req.Description,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTrackingResponse(tracking)})
}

// Delete DELETE /api/trackings/:id.
func (h *TrackingsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Status GET /api/trackings/:id/status.
func (h *TrackingsHandler) Status(c *fiber.Ctx) error {
	tracking, status, remaining, err := h.service.Status(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTrackingStatusResponse(tracking, status, remaining)})
}

// Escalation GET /api/trackings/:id/escalation.
func (h *TrackingsHandler) Escalation(c *fiber.Ctx) error {
	escalation, err := h.service.Escalation(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": escalation})
}

// ListByEntity GET /api/entities/:type/:id/trackings.
func (h *TrackingsHandler) ListByEntity(c *fiber.Ctx) error {
	trackings, err := h.service.ListByEntity(c.Context(), c.Params("type"), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trackingResponses(trackings)})
}

func parseTrackingQuery(c *fiber.Ctx) repository.TrackingFilter {
	filter := repository.TrackingFilter{}
	if entityType := c.Query("entity_type"); entityType != "" {
		filter.EntityType = &entityType
	}
	if slaType := c.Query("sla_type"); slaType != "" {
		filter.SLAType = &slaType
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TrackingStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.Priority(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func trackingResponses(trackings []domain.SLATracking) []dto.TrackingResponse {
	items := make([]dto.TrackingResponse, 0, len(trackings))
	for i := range trackings {
		items = append(items, dto.NewTrackingResponse(&trackings[i]))
	}
	return items
}
