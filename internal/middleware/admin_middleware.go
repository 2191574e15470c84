package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AdminKeyHeader carries the operator key for the admin routes.
const AdminKeyHeader = "X-Admin-Key"

// AdminRequired rejects requests that do not present adminKey.
func AdminRequired(adminKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		presented := c.Get(AdminKeyHeader)
		if adminKey == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(adminKey)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}
