package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"marketd/internal/auth"
	applog "marketd/internal/log"
)

// RequireRole authenticates the Bearer token and enforces a role claim.
// On success the resolved subject and roles land in ctx Locals for the
// handlers downstream.
func RequireRole(v *auth.Verifier, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}

		id, err := v.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			applog.Security(c, "auth.token.invalid", map[string]any{"reason": err.Error()})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		if !id.HasRole(role) {
			applog.Security(c, "access.denied."+role, map[string]any{"sub": id.Sub})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}

		c.Locals("sub", id.Sub)
		c.Locals("roles", id.Roles)
		return c.Next()
	}
}
