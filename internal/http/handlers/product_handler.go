package handlers

import (
	"bazaar/internal/apperr"
	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) All(c *fiber.Ctx) error {
	list, err := h.Catalog.All(c.UserContext())
	if err != nil {
		return fail(c, "product.list", err)
	}
	return c.JSON(fiber.Map{"products": list})
}

func (h *ProductHandler) Mine(c *fiber.Ctx) error {
	list, err := h.Catalog.Mine(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "product.mine", err)
	}
	return c.JSON(fiber.Map{"products": list})
}

func (h *ProductHandler) Featured(c *fiber.Ctx) error {
	list, err := h.Catalog.Featured(c.UserContext())
	if err != nil {
		return fail(c, "product.featured", err)
	}
	return c.JSON(list)
}

func (h *ProductHandler) ByCategory(c *fiber.Ctx) error {
	list, err := h.Catalog.ByCategory(c.UserContext(), c.Params("category"))
	if err != nil {
		return fail(c, "product.category", err)
	}
	return c.JSON(fiber.Map{"products": list})
}

func (h *ProductHandler) ByShop(c *fiber.Ctx) error {
	sf, err := h.Catalog.ByShop(c.UserContext(), c.Params("shopId"))
	if err != nil {
		return fail(c, "product.shop", err)
	}
	return c.JSON(sf)
}

func (h *ProductHandler) Recommendations(c *fiber.Ctx) error {
	list, err := h.Catalog.Recommendations(c.UserContext())
	if err != nil {
		return fail(c, "product.recommendations", err)
	}
	return c.JSON(list)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return fail(c, "product.get", apperr.NotFound("Product not found"))
	}
	p, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "product.get", err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "product.create")
	}
	p, err := h.Catalog.Create(c.UserContext(), currentUser(c), in)
	if err != nil {
		return fail(c, "product.create", err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// POST /api/products/import (multipart, field "file")
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, "product.import", apperr.ValidationFields("file is required", map[string]string{"file": "file is required"}))
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, "product.import", err)
	}
	defer f.Close()
	res, err := h.Catalog.Import(c.UserContext(), currentUser(c), f)
	if err != nil {
		return fail(c, "product.import", err)
	}
	applog.Audit(c, "product.import", map[string]any{"imported": res.Imported, "skipped": res.Skipped})
	return c.Status(fiber.StatusCreated).JSON(res)
}

// PATCH /api/products/:id toggles the featured flag.
func (h *ProductHandler) ToggleFeatured(c *fiber.Ctx) error {
	p, err := h.Catalog.ToggleFeatured(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "product.feature", err)
	}
	applog.Audit(c, "product.feature", map[string]any{"product_id": p.ID, "featured": p.IsFeatured})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return fail(c, "product.delete", err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
