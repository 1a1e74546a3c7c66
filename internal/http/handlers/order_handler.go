package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "marketd/internal/log"
	"marketd/internal/services"
)

type OrderHandler struct {
	Orders *services.OrderService
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var body struct {
		Items []services.OrderLine `json:"items"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	order, err := h.Orders.Place(sub(c), body.Items)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"error": err.Error()})
		return renderError(c, err)
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": order.ID, "lines": len(order.Items)})
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	orders, err := h.Orders.ListMine(sub(c))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(orders)
}
