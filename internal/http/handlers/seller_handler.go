package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "marketd/internal/log"
	"marketd/internal/services"
	"marketd/internal/validate"
)

type SellerHandler struct {
	Approvals *services.ApprovalService
	Proposals *services.ProposalService
	Catalog   *services.CatalogService
	Feedback  *services.FeedbackService
}

// ---------- category approval requests ----------

func (h *SellerHandler) RequestCategoryApproval(c *fiber.Ctx) error {
	var body struct {
		CategoryID string `json:"categoryId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	req, err := h.Approvals.Request(sub(c), body.CategoryID)
	if err != nil {
		return renderError(c, err)
	}
	applog.Audit(c, "approval.request", map[string]any{"request_id": req.ID, "category_id": req.CategoryID})
	return c.JSON(req)
}

func (h *SellerHandler) MyCategoryRequests(c *fiber.Ctx) error {
	items, err := h.Approvals.ListBySeller(sub(c))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(items)
}

func (h *SellerHandler) ApprovedCategories(c *fiber.Ctx) error {
	items, err := h.Approvals.ApprovedCategories(sub(c))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(items)
}

// ---------- proposals ----------

func (h *SellerHandler) ProposeCategory(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	p, err := h.Proposals.SubmitCategory(sub(c), body.Name)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(p)
}

func (h *SellerHandler) ProposeProduct(c *fiber.Ctx) error {
	var body struct {
		CategoryID      string  `json:"categoryId"`
		Name            string  `json:"name"`
		Price           float64 `json:"price"`
		InitialStockQty int     `json:"initialStockQty"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	p, err := h.Proposals.SubmitProduct(sub(c), body.CategoryID, body.Name, body.Price, body.InitialStockQty)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(p)
}

func (h *SellerHandler) MyProductProposals(c *fiber.Ctx) error {
	items, err := h.Proposals.ProductProposalsBySeller(sub(c))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(items)
}

func (h *SellerHandler) MyCategoryProposals(c *fiber.Ctx) error {
	items, err := h.Proposals.CategoryProposalsBySeller(sub(c))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(items)
}

// ---------- products ----------

func (h *SellerHandler) MyProducts(c *fiber.Ctx) error {
	summary, err := h.Catalog.ListMine(sub(c))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(summary)
}

func (h *SellerHandler) CreateProduct(c *fiber.Ctx) error {
	var body struct {
		CategoryID string  `json:"categoryId"`
		Name       string  `json:"name"`
		Price      float64 `json:"price"`
		StockQty   int     `json:"stockQty"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	p, err := h.Catalog.CreateProduct(sub(c), body.CategoryID, body.Name, body.Price, body.StockQty)
	if err != nil {
		return renderError(c, err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID, "category_id": p.CategoryID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *SellerHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var body struct {
		Price    float64 `json:"price"`
		StockQty int     `json:"stockQty"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	p, err := h.Catalog.UpdateProduct(sub(c), id, body.Price, body.StockQty)
	if err != nil {
		return renderError(c, err)
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": p.ID})
	return c.JSON(p)
}

// ---------- feedback on own products ----------

func (h *SellerHandler) MyFeedback(c *fiber.Ctx) error {
	items, err := h.Feedback.ListForSeller(sub(c))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(items)
}
