package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "marketd/internal/log"
	"marketd/internal/services"
	"marketd/internal/validate"
)

type FeedbackHandler struct {
	Feedback *services.FeedbackService
}

func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var body struct {
		ProductID string `json:"productId"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	f, err := h.Feedback.Submit(sub(c), body.ProductID, body.Rating, body.Comment)
	if err != nil {
		return renderError(c, err)
	}
	applog.Audit(c, "feedback.submit", map[string]any{"feedback_id": f.ID, "product_id": f.ProductID})
	return c.Status(fiber.StatusCreated).JSON(f)
}

// ForProduct is public: anyone can read a product's feedback.
func (h *FeedbackHandler) ForProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	items, err := h.Feedback.ListForProduct(id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(items)
}
