package middleware

import (
	"strings"

	"storefront/internal/logger"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token whose
// client session is still logged in as the token's user.
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

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			logger.Logger.Debug("JWT validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}
		userID, _ := claims["user_id"].(string)
		clientID, _ := claims["client_id"].(string)
		if userID == "" || clientID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		// A token outlives logout; the session decides.
		session, err := authService.CurrentSession(c.UserContext(), clientID)
		if err != nil {
			logger.Logger.Error("failed to load session", zap.String("client_id", clientID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not load session",
			})
		}
		if !session.IsAuthenticated || session.CurrentUser.ID != userID {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Session has ended, please login again",
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals("user_id", userID)
		c.Locals("client_id", clientID)
		c.Set(ClientIDHeader, clientID)

		return c.Next()
	}
}
