package handlers

import (
	"errors"

	"rentdesk/internal/controllers"

	"github.com/gofiber/fiber/v2"
)

// respondError maps the controller sentinel wrapped in err to an HTTP
// status. Anything unrecognized is a 500, with the real error kept out
// of the response body.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, controllers.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, controllers.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, controllers.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, controllers.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, controllers.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
