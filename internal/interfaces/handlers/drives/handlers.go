package drives

import (
	"strconv"

	drivesvc "sharebloom-backend/internal/application/drives"
	"sharebloom-backend/internal/middleware"
	"sharebloom-backend/internal/pkg/pagination"
	"sharebloom-backend/internal/pkg/response"
	"sharebloom-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves /api/drives.
type Handlers struct {
	Service *drivesvc.Service
}

// List GET /api/drives?status=&category=&isEmergency=&page=&limit=
func (h *Handlers) List(c *fiber.Ctx) error {
	f := drivesvc.Filter{Status: c.Query("status"), Category: c.Query("category")}
	if v := c.Query("isEmergency"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return response.Error(c, "isEmergency must be true or false", fiber.StatusBadRequest, nil)
		}
		f.IsEmergency = &b
	}
	page, err := h.Service.List(c.UserContext(), f, pagination.FromQuery(c, "limit", pagination.DefaultLimit))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Drives retrieved", page.Body("drives"), nil)
}

// Get GET /api/drives/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	d, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Drive retrieved", fiber.Map{"drive": d}, nil)
}

// Create POST /api/drives (admin)
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in drivesvc.CreateInput
	if err := validation.Parse(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	d, err := h.Service.Create(c.UserContext(), actor, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Drive created", fiber.Map{"drive": d}, nil)
}

// Update PUT /api/drives/:id (admin)
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var in drivesvc.UpdateInput
	if err := validation.Parse(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	d, err := h.Service.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Drive updated", fiber.Map{"drive": d}, nil)
}

// Delete DELETE /api/drives/:id (admin)
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	if err := h.Service.Delete(c.UserContext(), actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Drive deleted", nil, nil)
}

// Volunteer POST /api/drives/:id/volunteer {role?}
func (h *Handlers) Volunteer(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var in drivesvc.VolunteerInput
	if err := validation.Parse(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	d, err := h.Service.JoinAsVolunteer(c.UserContext(), actor, id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Successfully joined as volunteer", fiber.Map{"drive": d}, nil)
}

// AttachDonation POST /api/drives/:id/donations {donationId}
func (h *Handlers) AttachDonation(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var in drivesvc.AttachDonationInput
	if err := validation.Parse(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	d, err := h.Service.AttachDonation(c.UserContext(), actor, id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Donation added to drive", fiber.Map{"drive": d}, nil)
}

// AssignLogistics POST /api/drives/:id/logistics {userId} (admin)
func (h *Handlers) AssignLogistics(c *fiber.Ctx) error {
	id, err := validation.PathUUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var in drivesvc.AssignLogisticsInput
	if err := validation.Parse(c, &in); err != nil {
		return response.FromError(c, err)
	}
	actor, _ := middleware.CurrentActor(c)
	d, err := h.Service.AssignLogistics(c.UserContext(), actor, id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Logistics assigned", fiber.Map{"drive": d}, nil)
}
