package donations

import (
	donationsvc "sharebloom-backend/internal/application/donations"
	"sharebloom-backend/internal/middleware"
	"sharebloom-backend/internal/pkg/pagination"
	"sharebloom-backend/internal/pkg/response"
	"sharebloom-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves /api/donations.
type Handlers struct {
	Service *donationsvc.Service
}

// List GET /api/donations?category=&status=&location=&page=&limit=
func (h *Handlers) List(c *fiber.Ctx) error {
	f := donationsvc.Filter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		City:     c.Query("location"),
	}
	page, err := h.Service.List(c.UserContext(), f, pagination.FromQuery(c, "limit", pagination.DefaultLimit))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Donations retrieved", page.Body("donations"), nil)
}

// Mine GET /api/donations/user/my-donations
func (h *Handlers) Mine(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	page, err := h.Service.ListByDonor(c.UserContext(), actor.ID, pagination.FromQuery(c, "limit", pagination.DefaultLimit))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Donations retrieved", page.Body("donations"), nil)
}

// Get GET /api/donations/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	d, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Donation retrieved", fiber.Map{"donation": d}, nil)
}

// Create POST /api/donations (donor)
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in donationsvc.CreateInput
	if err := validation.Parse(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	d, err := h.Service.Create(c.UserContext(), actor, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Donation created", fiber.Map{"donation": d}, nil)
}

// Update PUT /api/donations/:id (owner or admin)
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var in donationsvc.UpdateInput
	if err := validation.Parse(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	d, err := h.Service.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Donation updated", fiber.Map{"donation": d}, nil)
}

// Transition POST /api/donations/:id/status
func (h *Handlers) Transition(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var in donationsvc.TransitionInput
	if err := validation.Parse(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	d, err := h.Service.Transition(c.UserContext(), actor, id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Donation status updated", fiber.Map{"donation": d}, nil)
}

// Delete DELETE /api/donations/:id (owner or admin)
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	if err := h.Service.Delete(c.UserContext(), actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Donation deleted", nil, nil)
}
