package admin

import (
	adminsvc "sharebloom-backend/internal/application/admin"
	usersvc "sharebloom-backend/internal/application/users"
	"sharebloom-backend/internal/middleware"
	"sharebloom-backend/internal/pkg/pagination"
	"sharebloom-backend/internal/pkg/response"
	"sharebloom-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// UsersPerPage is the admin user list default page size.
const UsersPerPage = 20

// Handlers serves /api/admin. Every route is admin-only.
type Handlers struct {
	Service *adminsvc.Service
	Users   *usersvc.Service
}

// RoleInput is the role change body.
type RoleInput struct {
	Role string `json:"role" validate:"required"`
}

// ListUsers GET /api/admin/users?q=&page=&perPage=
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	p := pagination.FromQuery(c, "perPage", UsersPerPage)
	page, err := h.Users.List(c.UserContext(), usersvc.Filter{Q: c.Query("q"), Role: c.Query("role")}, p)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Users retrieved", page.Body("users"), nil)
}

// ChangeRole PUT /api/admin/users/:id/role {role}
func (h *Handlers) ChangeRole(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var in RoleInput
	if err := validation.Body(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	u, err := h.Users.ChangeRole(c.UserContext(), actor, id, in.Role)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Role updated", fiber.Map{"user": u}, nil)
}

// DeleteUser DELETE /api/admin/users/:id
func (h *Handlers) DeleteUser(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	if err := h.Users.Delete(c.UserContext(), actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User deleted", nil, nil)
}

// Stats GET /api/admin/stats
func (h *Handlers) Stats(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	stats, err := h.Service.Stats(c.UserContext(), actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Platform stats", stats, nil)
}

// Reports GET /api/admin/reports
func (h *Handlers) Reports(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	entries, err := h.Service.Reports(c.UserContext(), actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Recent activity", fiber.Map{"reports": entries}, nil)
}
