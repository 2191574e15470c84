package middleware

import (
	"strings"

	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ClientIDHeader identifies the browser tab or device whose session and cart
// a request acts on.
const ClientIDHeader = "X-Client-ID"

// ClientContext resolves the client ID for the request. The header wins,
// then the client_id claim of a valid bearer token; otherwise a new ID is
// generated. The ID is echoed back so the client can keep it.
func ClientContext(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := c.Get(ClientIDHeader)
		if clientID == "" {
			clientID = clientIDFromToken(authService, c.Get("Authorization"))
		}
		if clientID == "" {
			clientID = uuid.New().String()
		}
		c.Locals("client_id", clientID)
		c.Set(ClientIDHeader, clientID)
		return c.Next()
	}
}

// clientIDFromToken returns the client_id claim of a valid bearer token, or
// "" when there is none.
func clientIDFromToken(authService *services.AuthService, authHeader string) string {
	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenString == "" {
		return ""
	}
	claims, err := authService.ValidateToken(tokenString)
	if err != nil {
		return ""
	}
	clientID, _ := claims["client_id"].(string)
	return clientID
}

// ClientID returns the client ID stored by ClientContext or AuthRequired.
func ClientID(c *fiber.Ctx) string {
	clientID, _ := c.Locals("client_id").(string)
	return clientID
}

// UserID returns the user ID stored by AuthRequired.
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
