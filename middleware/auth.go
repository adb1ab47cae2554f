// middleware/auth.go
package middleware

import (
	"errors"
	"log"
	"strconv"

	"invest-platform/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserContextMiddleware extracts the authenticated principal set by the
// Gateway. The gateway verifies the session and forwards the ledger user id
// in X-User-ID; this service never authenticates directly.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-User-ID")
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			log.Printf("❌ [USER_CTX] Malformed X-User-ID %q on %s", raw, c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "malformed X-User-ID",
			})
		}

		c.Locals("user_id", uint(userID))
		return c.Next()
	}
}

// AdminOnlyMiddleware loads the user row behind the gateway identity and
// rejects non-admins. Runs after UserContextMiddleware.
func AdminOnlyMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uint)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden. Admin access required."})
		}

		return c.Next()
	}
}
