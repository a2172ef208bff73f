package health

import (
	healthsvc "sharebloom-backend/internal/application/health"
	"sharebloom-backend/internal/pkg/apperr"
	"sharebloom-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Service        *healthsvc.Service
	HealthAdminKey string
}

// Reset GET /api/health/reset?key= clears the counters. Requires HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	if err := h.Service.Reset(c.UserContext()); err != nil {
		return response.FromError(c, apperr.Internal(err))
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// JSON GET /api/health
func (h *Handlers) JSON(c *fiber.Ctx) error {
	return c.JSON(h.Service.Collect(c.UserContext()))
}

// Errors GET /api/health/errors returns the most recent 5xx entries.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	entries, err := h.Service.RecentErrors(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]interface{}{})
	}
	return c.JSON(entries)
}
