package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"marketd/internal/domain"
	applog "marketd/internal/log"
)

// renderError maps the domain error taxonomy onto the status convention:
// 400 validation/rule, 401 missing identity, 403 denied, 404 unknown id,
// 409 uniqueness conflict. Anything unclassified is a 500 with no
// internals leaked.
func renderError(c *fiber.Ctx, err error) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		applog.Error(c, "server.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong, please try again",
		})
	}

	status := fiber.StatusInternalServerError
	switch de.Kind {
	case domain.KindValidation, domain.KindRuleViolation:
		status = fiber.StatusBadRequest
	case domain.KindUnauthenticated:
		status = fiber.StatusUnauthorized
	case domain.KindForbidden:
		status = fiber.StatusForbidden
	case domain.KindNotFound:
		status = fiber.StatusNotFound
	case domain.KindConflict:
		status = fiber.StatusConflict
	case domain.KindTransient:
		// internal retries ran out; the client may simply try again
		status = fiber.StatusServiceUnavailable
	}

	body := fiber.Map{"error": de.Message}
	for k, v := range de.Fields {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// sub returns the authenticated subject placed by RequireRole.
func sub(c *fiber.Ctx) string {
	s, _ := c.Locals("sub").(string)
	return s
}
