package requests

import (
	requestsvc "sharebloom-backend/internal/application/requests"
	"sharebloom-backend/internal/middleware"
	"sharebloom-backend/internal/pkg/pagination"
	"sharebloom-backend/internal/pkg/response"
	"sharebloom-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves /api/requests.
type Handlers struct {
	Service *requestsvc.Service
}

// List GET /api/requests?category=&status=&priority=&urgency=&page=&limit=
func (h *Handlers) List(c *fiber.Ctx) error {
	f := requestsvc.Filter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Urgency:  c.Query("urgency"),
	}
	page, err := h.Service.List(c.UserContext(), f, pagination.FromQuery(c, "limit", pagination.DefaultLimit))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Requests retrieved", page.Body("requests"), nil)
}

// Mine GET /api/requests/user/my-requests
func (h *Handlers) Mine(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	page, err := h.Service.ListByRecipient(c.UserContext(), actor.ID, pagination.FromQuery(c, "limit", pagination.DefaultLimit))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Requests retrieved", page.Body("requests"), nil)
}

// Get GET /api/requests/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	r, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Request retrieved", fiber.Map{"request": r}, nil)
}

// Create POST /api/requests (recipient)
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in requestsvc.CreateInput
	if err := validation.Parse(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	r, err := h.Service.Create(c.UserContext(), actor, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Request created", fiber.Map{"request": r}, nil)
}

// Update PUT /api/requests/:id (owner or admin)
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var in requestsvc.UpdateInput
	if err := validation.Parse(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	r, err := h.Service.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Request updated", fiber.Map{"request": r}, nil)
}

// Match POST /api/requests/:id/match {donationId}
func (h *Handlers) Match(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var in requestsvc.MatchInput
	if err := validation.Parse(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	r, err := h.Service.Match(c.UserContext(), actor, id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Request matched", fiber.Map{"request": r}, nil)
}

// Delete DELETE /api/requests/:id (owner or admin)
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	if err := h.Service.Delete(c.UserContext(), actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Request deleted", nil, nil)
}
