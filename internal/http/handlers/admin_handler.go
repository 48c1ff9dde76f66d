package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Admin *services.AdminService
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Admin.Stats(c.UserContext())
	if err != nil {
		return fail(c, "admin.stats", err)
	}
	return c.JSON(st)
}

// GET /api/admin/users
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.Admin.Users(c.UserContext())
	if err != nil {
		return fail(c, "admin.users", err)
	}
	return c.JSON(fiber.Map{"users": users})
}

type roleInput struct {
	Role string `json:"role"`
}

// PATCH /api/admin/users/:id/role
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	var in roleInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "admin.role")
	}
	id := c.Params("id")
	u, err := h.Admin.SetRole(c.UserContext(), id, in.Role)
	if err != nil {
		return fail(c, "admin.role", err)
	}
	applog.Audit(c, "admin.role.update", map[string]any{"subject": id, "role": in.Role})
	return c.JSON(fiber.Map{"user": u.Public()})
}
