package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and the profile.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/session", h.HandleSession)
}

// RegisterProtectedRoutes registers routes that need a logged-in user.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Put("/profile", h.HandleUpdateProfile)
}

// HandleSignup handles new user registration.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req services.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	session, err := h.authService.Signup(c.UserContext(), middleware.ClientID(c), req)
	if err != nil {
		return respondError(c, err, "Could not register user")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"session": session,
	})
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	session, err := h.authService.Login(c.UserContext(), middleware.ClientID(c), req)
	if err != nil {
		return respondError(c, err, "Could not log in")
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   session.Token,
		"session": session,
	})
}

// HandleLogout ends the client's session and clears its cart.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.authService.Logout(c.UserContext(), middleware.ClientID(c))
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// HandleSession returns the client's current session.
func (h *AuthHandler) HandleSession(c *fiber.Ctx) error {
	session, err := h.authService.CurrentSession(c.UserContext(), middleware.ClientID(c))
	if err != nil {
		return respondError(c, err, "Could not load session")
	}
	return c.JSON(session)
}

// HandleUpdateProfile merges the posted fields into the user's profile.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), middleware.ClientID(c), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err, "Could not update profile")
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
