package middlewares

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"matka/helpers"
	"matka/models"
	"matka/storage"
)

// UserAuth resolves the pre-authenticated caller from the X-User-ID
// header and stores the user in ctx locals. Session handling lives in
// front of this service; the core trusts the identity it is handed.
func UserAuth(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-User-ID")
		if raw == "" {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		user, err := store.GetUser(c.Context(), uint(id))
		if err != nil {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// AdminOnly requires the authenticated user to have the admin role.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*models.User)
		if !ok {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		if !user.IsAdmin() {
			return helpers.JSONError(c, fiber.StatusForbidden, "Forbidden: Admin access required")
		}
		return c.Next()
	}
}

// CurrentUser returns the user resolved by UserAuth.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok
}
