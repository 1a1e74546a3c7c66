package handlers

import (
	"github.com/gofiber/fiber/v2"

	"marketd/internal/services"
	"marketd/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// PublicProducts lists products whose seller holds an Approved ledger
// entry for the product's category.
func (h *CatalogHandler) PublicProducts(c *fiber.Ctx) error {
	items, err := h.Catalog.ListVisible()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(items)
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	items, err := h.Catalog.ListCategories()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(items)
}

// BuyerProducts pages through active products, optionally by category.
func (h *CatalogHandler) BuyerProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 20)
	categoryID := c.Query("categoryId")

	out, err := h.Catalog.ListActive(categoryID, page, pageSize)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) BuyerProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	p, err := h.Catalog.GetActive(id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(p)
}
