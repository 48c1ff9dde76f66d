package handlers

import (
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "cart.view", err)
	}
	return c.JSON(cv)
}

type cartAddInput struct {
	ProductID string `json:"productId"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in cartAddInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "cart.add")
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "productId is required"})
	}
	cv, err := h.Cart.Add(c.UserContext(), currentUser(c), in.ProductID)
	if err != nil {
		return fail(c, "cart.add", err)
	}
	return c.JSON(cv)
}

type cartQtyInput struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	var in cartQtyInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "cart.update")
	}
	cv, err := h.Cart.Update(c.UserContext(), currentUser(c), c.Params("productId"), in.Quantity)
	if err != nil {
		return fail(c, "cart.update", err)
	}
	return c.JSON(cv)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cv, err := h.Cart.Clear(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "cart.clear", err)
	}
	return c.JSON(cv)
}
