package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "marketd/internal/log"
	"marketd/internal/services"
	"marketd/internal/validate"
)

type AdminHandler struct {
	Approvals *services.ApprovalService
	Proposals *services.ProposalService
}

// ---------- category approval requests ----------

func (h *AdminHandler) PendingCategoryRequests(c *fiber.Ctx) error {
	items, err := h.Approvals.ListPending()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(items)
}

func (h *AdminHandler) DecideCategoryRequest(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}
	var body struct {
		Decision string `json:"decision"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	req, err := h.Approvals.Decide(id, body.Decision)
	if err != nil {
		return renderError(c, err)
	}
	applog.Audit(c, "approval.decide", map[string]any{
		"request_id": req.ID, "status": req.Status, "seller_sub": req.SellerSub,
	})
	return c.JSON(req)
}

// ---------- proposals ----------

type reviewBody struct {
	ProposalID      string `json:"proposalId"`
	Decision        string `json:"decision"`
	RejectionReason string `json:"rejectionReason"`
}

func (h *AdminHandler) PendingCategoryProposals(c *fiber.Ctx) error {
	items, err := h.Proposals.PendingCategoryProposals()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(items)
}

func (h *AdminHandler) PendingProductProposals(c *fiber.Ctx) error {
	items, err := h.Proposals.PendingProductProposals()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(items)
}

func (h *AdminHandler) ReviewCategoryProposal(c *fiber.Ctx) error {
	var body reviewBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	p, err := h.Proposals.ReviewCategory(services.Review{
		ProposalID:      body.ProposalID,
		AdminSub:        sub(c),
		Decision:        body.Decision,
		RejectionReason: body.RejectionReason,
	})
	if err != nil {
		return renderError(c, err)
	}
	applog.Audit(c, "proposal.category.review", map[string]any{"proposal_id": p.ID, "status": p.Status})
	return c.JSON(p)
}

func (h *AdminHandler) ReviewProductProposal(c *fiber.Ctx) error {
	var body reviewBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	p, err := h.Proposals.ReviewProduct(services.Review{
		ProposalID:      body.ProposalID,
		AdminSub:        sub(c),
		Decision:        body.Decision,
		RejectionReason: body.RejectionReason,
	})
	if err != nil {
		return renderError(c, err)
	}
	applog.Audit(c, "proposal.product.review", map[string]any{"proposal_id": p.ID, "status": p.Status})
	return c.JSON(p)
}
