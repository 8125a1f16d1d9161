package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// requesterEmail returns the authenticated identity set by the JWT middleware.
func requesterEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("email").(string)
	return strings.ToLower(email)
}

func isAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == "admin"
}

// canAccess: кандидат видит только свои записи, админ — любые.
func canAccess(c *fiber.Ctx, email string) bool {
	return isAdmin(c) || requesterEmail(c) == strings.ToLower(email)
}

// parseDueTime принимает RFC3339 и формат datetime-local без зоны.
func parseDueTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", s)
}
