package middleware

import (
	"log"
	"strings"

	"pedidos/internal/models"
	"pedidos/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserKey is the Locals key under which AuthRequired stores the
// resolved *models.User.
const UserKey = "user"

// AuthRequired is a Fiber middleware that resolves the bearer token to a
// user. Every failure mode surfaces as the same 401 so callers learn
// nothing about which check failed.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		user, err := authService.ResolveToken(parts[1])
		if err != nil {
			log.Printf("Bearer token rejected: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": services.ErrInvalidToken.Error(),
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}
