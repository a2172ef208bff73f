package users

import (
	"encoding/json"

	usersvc "sharebloom-backend/internal/application/users"
	"sharebloom-backend/internal/middleware"
	"sharebloom-backend/internal/pkg/pagination"
	"sharebloom-backend/internal/pkg/response"
	"sharebloom-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves /api/users.
type Handlers struct {
	Service *usersvc.Service
}

// List GET /api/users?role=&q=&page=&limit= (admin).
func (h *Handlers) List(c *fiber.Ctx) error {
	p := pagination.FromQuery(c, "limit", pagination.DefaultLimit)
	page, err := h.Service.List(c.UserContext(), usersvc.Filter{Role: c.Query("role"), Q: c.Query("q")}, p)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Users retrieved", page.Body("users"), nil)
}

// ByRole GET /api/users/role/:role
func (h *Handlers) ByRole(c *fiber.Ctx) error {
	p := pagination.FromQuery(c, "limit", pagination.DefaultLimit)
	page, err := h.Service.ListByRole(c.UserContext(), c.Params("role"), p)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Users retrieved", page.Body("users"), nil)
}

// Get GET /api/users/:id (self or admin).
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	u, err := h.Service.Get(c.UserContext(), actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User retrieved", fiber.Map{"user": u}, nil)
}

// Update PUT /api/users/:id (self or admin). Protected keys in the body are ignored.
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.FromError(c, validation.ErrInvalidBody)
	}
	actor, _ := middleware.CurrentActor(c)
	u, err := h.Service.Update(c.UserContext(), actor, id, body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User updated", fiber.Map{"user": u}, nil)
}

// Delete DELETE /api/users/:id (admin, not self).
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	if err := h.Service.Delete(c.UserContext(), actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User deleted", nil, nil)
}
