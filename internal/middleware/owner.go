// Package middleware provides HTTP middleware components for the
// application. Authentication proper lives outside this service; requests
// arrive with the owner already established upstream and carried in a
// header.
package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// OwnerLocalKey is the fiber locals key the owner id is stored under.
const OwnerLocalKey = "ownerID"

// Owner extracts the owner id from the X-Owner-ID header and stores it in
// the request locals. Requests without a valid owner are rejected.
func Owner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-Owner-ID")
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing owner header"})
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid owner header"})
		}
		c.Locals(OwnerLocalKey, uint(id))
		return c.Next()
	}
}

// OwnerID reads the owner id set by Owner. Zero means the middleware did not
// run.
func OwnerID(c *fiber.Ctx) uint {
	id, _ := c.Locals(OwnerLocalKey).(uint)
	return id
}
