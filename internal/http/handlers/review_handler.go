package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// GET /api/reviews/product/:productId
func (h *ReviewHandler) ByProduct(c *fiber.Ctx) error {
	out, err := h.Reviews.ByProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return fail(c, "review.list", err)
	}
	return c.JSON(out)
}

// POST /api/reviews
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	var in services.ReviewInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "review.submit")
	}
	u := currentUser(c)
	res, err := h.Reviews.Submit(c.UserContext(), u.ID, u.Name, in)
	if err != nil {
		return fail(c, "review.submit", err)
	}
	status, msg := fiber.StatusOK, "Review updated successfully"
	if res.Created {
		status, msg = fiber.StatusCreated, "Review submitted successfully"
	}
	applog.Audit(c, "review.submit", map[string]any{"product_id": in.ProductID, "created": res.Created})
	return c.Status(status).JSON(fiber.Map{"message": msg, "review": res.Review, "summary": res.Summary})
}
