package handlers

import (
	"errors"

	"pedidos/internal/services"

	"github.com/gofiber/fiber/v2"
)

// mapServiceError translates service-layer errors into HTTP responses.
// Unknown errors become a 500 with the supplied fallback message.
func mapServiceError(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *services.ValidationError

	switch {
	case errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": services.ErrInvalidToken.Error(),
		})
	case errors.Is(err, services.ErrNotPermitted):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": services.ErrNotPermitted.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": services.ErrNotFound.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": services.ErrInvalidCredentials.Error(),
		})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": validationErr.Message,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fallback,
			"error":   err.Error(),
		})
	}
}
