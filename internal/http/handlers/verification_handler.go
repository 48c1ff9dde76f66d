package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

type VerificationHandler struct {
	Verify *services.VerificationService
}

// POST /api/verifications/submit
func (h *VerificationHandler) Submit(c *fiber.Ctx) error {
	var in services.VerificationInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "verification.submit")
	}
	u := currentUser(c)
	v, err := h.Verify.Submit(c.UserContext(), u.ID, in)
	if err != nil {
		return fail(c, "verification.submit", err)
	}
	applog.Audit(c, "verification.submit", nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Verification submitted successfully",
		"verification": v,
	})
}

// GET /api/verifications/me
func (h *VerificationHandler) Me(c *fiber.Ctx) error {
	st, err := h.Verify.Status(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return fail(c, "verification.status", err)
	}
	return c.JSON(st)
}

// GET /api/verifications?status=
func (h *VerificationHandler) List(c *fiber.Ctx) error {
	list, err := h.Verify.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return fail(c, "verification.list", err)
	}
	return c.JSON(fiber.Map{"verifications": list})
}

type reviewDecision struct {
	Status        string `json:"status"`
	ReviewerNotes string `json:"reviewerNotes"`
}

// PATCH /api/verifications/:userId/status
func (h *VerificationHandler) Review(c *fiber.Ctx) error {
	var in reviewDecision
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "verification.review")
	}
	userID := c.Params("userId")
	v, err := h.Verify.Review(c.UserContext(), currentUser(c).ID, userID, in.Status, in.ReviewerNotes)
	if err != nil {
		return fail(c, "verification.review", err)
	}
	applog.Audit(c, "verification.review", map[string]any{"subject": userID, "status": in.Status})
	return c.JSON(fiber.Map{"message": "Verification status updated successfully", "verification": v})
}
